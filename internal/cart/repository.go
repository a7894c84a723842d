package cart

import (
	"context"
	"sync"
	"time"

	"liwamenu-be/internal/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	DefaultCapacity = 10_000
	DefaultTTL      = 6 * time.Hour
)

// Repository keeps one cart per diner session.
type Repository interface {
	// Load returns the session's cart, creating an empty one if needed.
	Load(ctx context.Context, sessionID string) *Cart
	// Touch refreshes the cart's expiry after a change.
	Touch(ctx context.Context, c *Cart)
	Delete(ctx context.Context, sessionID string)
	Len() int
}

type repository struct {
	mu    sync.Mutex
	carts *expirable.LRU[string, *Cart]
}

// NewRepository returns an in-memory store; carts idle longer than ttl are
// dropped, and the least recently used one goes when capacity is reached.
func NewRepository(capacity int, ttl time.Duration) Repository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	onEvict := func(sessionID string, _ *Cart) {
		logger.L().Debug("cart evicted",
			zap.String("layer", "repository"),
			zap.String("session_id", sessionID),
		)
	}

	return &repository{carts: expirable.NewLRU[string, *Cart](capacity, onEvict, ttl)}
}

func (r *repository) Load(ctx context.Context, sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.carts.Get(sessionID); ok {
		return c
	}

	c := newCart(sessionID)
	r.carts.Add(sessionID, c)

	logger.FromCtx(ctx).Debug("cart created",
		zap.String("layer", "repository"),
		zap.String("method", "Load"),
		zap.String("session_id", sessionID),
	)
	return c
}

func (r *repository) Touch(_ context.Context, c *Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts.Add(c.SessionID, c)
}

func (r *repository) Delete(_ context.Context, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts.Remove(sessionID)
}

func (r *repository) Len() int {
	return r.carts.Len()
}
