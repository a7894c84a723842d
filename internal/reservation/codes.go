package reservation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/bcrypt"
)

const (
	CodeDigits      = 6
	DefaultCodeTTL  = 10 * time.Minute
	MaxCodeAttempts = 5
	maxPendingCodes = 10_000
)

type pendingCode struct {
	hash     []byte
	attempts int
}

// codeStore keeps bcrypt hashes of issued codes until they expire, are
// used, or run out of attempts.
type codeStore struct {
	mu    sync.Mutex
	codes *expirable.LRU[string, *pendingCode]
	cost  int
}

func newCodeStore(ttl time.Duration) *codeStore {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &codeStore{
		codes: expirable.NewLRU[string, *pendingCode](maxPendingCodes, nil, ttl),
		cost:  bcrypt.DefaultCost,
	}
}

// put replaces any earlier code for key.
func (s *codeStore) put(key, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes.Add(key, &pendingCode{hash: hash})
	return nil
}

// verify checks code against the pending hash. A correct code stays
// pending until consume so a failed submission can be retried.
func (s *codeStore) verify(key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.codes.Get(key)
	if !ok {
		return ErrCodeNotRequested
	}
	if p.attempts >= MaxCodeAttempts {
		s.codes.Remove(key)
		return ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(code)); err != nil {
		p.attempts++
		return ErrCodeMismatch
	}
	return nil
}

func (s *codeStore) consume(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes.Remove(key)
}
