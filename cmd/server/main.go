package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/config"
	"liwamenu-be/internal/db"
	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/metrics"
	"liwamenu-be/internal/middleware"
	"liwamenu-be/internal/migrate"
	"liwamenu-be/internal/order"
	"liwamenu-be/internal/reservation"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/table"
	"liwamenu-be/internal/transport"
	"liwamenu-be/internal/upstream"
	"liwamenu-be/internal/waiter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

var (
	initDBFunc      = db.InitDB
	migrateFunc     = migrate.Up
	startServerFunc = listenAndServe
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	state, err := restaurant.LoadFile(cfg.RestaurantFile)
	if err != nil {
		return fmt.Errorf("load restaurant: %w", err)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	if err := migrateFunc(database); err != nil {
		return err
	}

	handler, err := newServer(ctx, cfg, database, state)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("🚀 server running",
		zap.String("addr", addr),
		zap.String("restaurant_id", state.RestaurantID),
		zap.String("env", cfg.AppEnv),
	)
	return startServerFunc(ctx, addr, handler)
}

// newServer wires every service behind the router. The limiter cleanup
// runs until ctx is done.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, state *restaurant.State) (http.Handler, error) {
	store := restaurant.NewStore(*state, cfg.Location())

	issuer, err := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	cartRepo := cart.NewRepository(cart.DefaultCapacity, cfg.CartTTL)
	cartSvc := cart.NewService(cartRepo, store)

	collector := metrics.NewCollector(func() float64 { return float64(cartRepo.Len()) })

	client := func(target, url string) *upstream.Client {
		return upstream.New(target, url, cfg.UpstreamTimeout, collector)
	}

	orderSvc := order.NewService(
		order.NewRepository(database),
		cartSvc,
		store,
		order.NewSubmitter(client("order", cfg.OrderAPIURL)),
		collector,
		cfg.GeolocationTimeout,
	)

	reservationSvc := reservation.NewService(store, reservation.Clients{
		SMS:    client("reservation_code_sms", cfg.ReservationCodeSMSURL),
		Email:  client("reservation_code_email", cfg.ReservationCodeEmailURL),
		Submit: client("reservation", cfg.ReservationAPIURL),
	}, collector, reservation.Options{LocalCountry: cfg.LocalCountryCode})

	waiterSvc := waiter.NewService(store, client("call_waiter", cfg.CallWaiterURL), collector)
	tableSvc := table.NewService(issuer)

	limiter := middleware.NewLimiter(cfg.InternalSecretKey)
	go limiter.Cleanup(ctx)

	secure := cfg.AppEnv == "production"
	return transport.NewRouter(transport.Deps{
		Sessions:       transport.NewSessionHandler(issuer, secure),
		Restaurant:     transport.NewRestaurantHandler(store),
		Cart:           transport.NewCartHandler(cartSvc),
		Orders:         transport.NewOrderHandler(orderSvc),
		Tables:         transport.NewTableHandler(tableSvc, waiterSvc, secure),
		Reservations:   transport.NewReservationHandler(reservationSvc),
		Parser:         issuer,
		Limiter:        limiter,
		Metrics:        collector.Handler(),
		DB:             database,
		InternalSecret: cfg.InternalSecretKey,
		AllowedOrigins: cfg.AllowedOrigins,
	}), nil
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
