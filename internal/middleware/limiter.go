package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Verification codes, waiter calls, order submission (Strict)
	limitStrict = rate.Limit(0.2)
	burstStrict = 3

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200
)

const (
	visitorIdle     = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per identity and tier.
type Limiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	internalKey string
	now         func() time.Time
}

func NewLimiter(internalKey string) *Limiter {
	return &Limiter{
		visitors:    make(map[string]*visitor),
		internalKey: internalKey,
		now:         time.Now,
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (l *Limiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup drops idle visitors every minute until ctx is done.
func (l *Limiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, key)
		}
	}
}

// Middleware checks if the request is allowed by the rate limiter. It
// must run after SessionMiddleware so sessions get their own bucket.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Determine Rate Tier
		limit, burst, tier := l.resolveRateTier(r)

		// 2. Determine Identity Key
		identity := identityFor(r, tier)

		// 3. Separate quotas per tier, e.g. "session:abc:strict"
		key := fmt.Sprintf("%s:%s", identity, tier)

		if !l.getVisitor(key, limit, burst).Allow() {
			w.Header().Set("Retry-After", "5")
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRateTier determines which rate limit policy applies to the request.
func (l *Limiter) resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if isInternal(r, l.internalKey) {
		return limitInternal, burstInternal, "internal"
	}

	if r.Method == http.MethodPost && isStrictPath(r.URL.Path) {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}

// strictPaths lists the strict-tier routes. The value reports whether the
// route requires a session; those without one trigger outbound sends that
// anyone can reach.
var strictPaths = map[string]bool{
	"/reservations/code": false,
	"/reservations":      false,
	"/waiter":            true,
	"/orders":            true,
}

func isStrictPath(path string) bool {
	_, ok := strictPaths[strings.TrimSuffix(path, "/")]
	return ok
}

// identityFor picks the bucket owner. Sessions are free to mint and
// X-Device-ID is client supplied, so strict routes that need no session
// are keyed on the client IP alone.
func identityFor(r *http.Request, tier string) string {
	if tier == "strict" && !strictPaths[strings.TrimSuffix(r.URL.Path, "/")] {
		return "ip:" + clientIP(r)
	}

	if claims, ok := session.FromContext(r.Context()); ok {
		return "session:" + claims.SessionID
	}
	if tier != "strict" {
		if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
			return "device:" + deviceID
		}
	}
	return "ip:" + clientIP(r)
}

// clientIP reads RemoteAddr, which chi's RealIP has already rewritten.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
