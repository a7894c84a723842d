package middleware

import (
	"net/http"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/session"

	"go.uber.org/zap"
)

// responseRecorder lets us capture HTTP status codes
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request. Place it inside
// logger.RequestIDMiddleware and SessionMiddleware so the line carries the
// request and session ids.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", r.RemoteAddr),
		}
		if claims, ok := session.FromContext(r.Context()); ok {
			fields = append(fields, zap.String("session_id", claims.SessionID))
		}

		log := logger.FromCtx(r.Context())
		switch {
		case rec.statusCode >= 500:
			log.Error("HTTP Request", fields...)
		case rec.statusCode >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	})
}
