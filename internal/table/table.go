package table

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/session"

	"go.uber.org/zap"
)

var (
	ErrNoTableInCode = errors.New("no table number found in scanned code")
	ErrSameTable     = errors.New("already seated at this table")
)

const queryKey = "tableNumber"

var tableParam = regexp.MustCompile(`tableNumber=(\d+)`)

// ParseTableNumber extracts a positive table number from a scanned QR
// payload, either a URL carrying ?tableNumber= or any text containing
// tableNumber=<digits>.
func ParseTableNumber(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if u, err := url.Parse(text); err == nil && u.RawQuery != "" {
		if v := u.Query().Get(queryKey); v != "" {
			if n, ok := positive(v); ok {
				return n, true
			}
		}
	}

	if m := tableParam.FindStringSubmatch(text); m != nil {
		return positive(m[1])
	}
	return 0, false
}

func positive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// TokenIssuer re-signs a session with a new table.
type TokenIssuer interface {
	Reissue(sessionID string, tableNumber *int) (string, *session.Claims, error)
}

type Service interface {
	// Change moves the session to the table in scanned and returns the
	// new session token.
	Change(ctx context.Context, sess *session.Claims, scanned string) (string, *session.Claims, error)
}

type service struct {
	issuer TokenIssuer
}

func NewService(issuer TokenIssuer) Service {
	return &service{issuer: issuer}
}

func (s *service) Change(ctx context.Context, sess *session.Claims, scanned string) (string, *session.Claims, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangeTable"),
		zap.String("session_id", sess.SessionID),
	)

	n, ok := ParseTableNumber(scanned)
	if !ok {
		return "", nil, ErrNoTableInCode
	}
	if sess.HasTable() && *sess.TableNumber == n {
		return "", nil, ErrSameTable
	}

	token, claims, err := s.issuer.Reissue(sess.SessionID, &n)
	if err != nil {
		log.Error("failed to reissue session", zap.Error(err))
		return "", nil, err
	}

	log.Info("table changed", zap.Int("table", n))
	return token, claims, nil
}
