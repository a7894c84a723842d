package middleware

import (
	"crypto/subtle"
	"net/http"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"go.uber.org/zap"
)

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*session.Claims, error)
}

// SessionMiddleware attaches the diner session to the request context
// when a token is present. A token that fails verification is dropped and
// the request continues anonymously, so a stale cookie never blocks
// POST /session. RequireSession guards the routes that need one.
func SessionMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := session.ExtractToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Info("dropped invalid session token", zap.Error(err))
				if _, cerr := r.Cookie(session.CookieName); cerr == nil {
					clearSessionCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
		})
	}
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession rejects requests that carry no session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "session required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InternalOnly admits trusted services presenting the shared secret in
// X-Service-Auth. With no secret configured every request is refused.
func InternalOnly(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isInternal(r, secret) {
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithInternalRequest(r.Context())))
		})
	}
}

func isInternal(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	got := r.Header.Get("X-Service-Auth")
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}
