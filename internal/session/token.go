package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session_token"
	DefaultTTL = 12 * time.Hour
)

// Claims identify a diner session. TableNumber is set once the diner has
// scanned a table QR code.
type Claims struct {
	SessionID   string `json:"session_id"`
	TableNumber *int   `json:"table_number,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasTable() bool {
	return c.TableNumber != nil && *c.TableNumber > 0
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue starts a new session, optionally already bound to a table.
func (i *Issuer) Issue(tableNumber *int) (string, *Claims, error) {
	return i.Reissue(uuid.NewString(), tableNumber)
}

// Reissue signs a fresh token for an existing session id, e.g. after a
// table change.
func (i *Issuer) Reissue(sessionID string, tableNumber *int) (string, *Claims, error) {
	if tableNumber != nil && *tableNumber <= 0 {
		return "", nil, ErrInvalidTable
	}

	now := i.now()
	claims := &Claims{
		SessionID:   sessionID,
		TableNumber: tableNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrUnexpectedSigning
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken reads the session token from the cookie, falling back to a
// bearer Authorization header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
