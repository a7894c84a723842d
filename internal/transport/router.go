package transport

import (
	"context"
	"net/http"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/middleware"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything the router mounts.
type Deps struct {
	Sessions     *SessionHandler
	Restaurant   *RestaurantHandler
	Cart         *CartHandler
	Orders       *OrderHandler
	Tables       *TableHandler
	Reservations *ReservationHandler

	Parser         middleware.TokenParser
	Limiter        *middleware.Limiter
	Metrics        http.Handler
	DB             Pinger
	InternalSecret string
	AllowedOrigins []string
}

// NewRouter builds the HTTP surface. The access log sits inside the
// session middleware so each line carries the session id.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.SessionMiddleware(d.Parser))
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.Get("/health", healthHandler(d.DB))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	d.Sessions.RegisterRoutes(r)
	d.Restaurant.RegisterRoutes(r)
	d.Reservations.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		d.Cart.RegisterRoutes(r)
		d.Orders.RegisterRoutes(r)
		d.Tables.RegisterRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.InternalOnly(d.InternalSecret))
		d.Orders.RegisterInternalRoutes(r)
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.FromCtx(r.Context()).Warn("health check: database unreachable", zap.Error(err))
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DEGRADED"})
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}
