package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/geo"
	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/metrics"
	"liwamenu-be/internal/pricing"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"go.uber.org/zap"
)

// StateSource supplies the restaurant and the clock in its time zone.
type StateSource interface {
	State() restaurant.State
	Now() time.Time
}

// CartStore is the part of the cart service checkout needs.
type CartStore interface {
	Summary(ctx context.Context, sessionID string) (cart.Summary, error)
	RemoveLines(ctx context.Context, sessionID string, lineIDs []string) error
}

type Service interface {
	Quote(ctx context.Context, sess *session.Claims, orderType pricing.OrderType) (*Quote, error)
	Checkout(ctx context.Context, sess *session.Claims, req CheckoutRequest) (*Order, error)
	History(ctx context.Context, sessionID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type service struct {
	repo          Repository
	carts         CartStore
	state         StateSource
	submitter     Submitter
	metrics       *metrics.Collector
	locateTimeout time.Duration

	// inflight holds session ids with a checkout underway.
	inflight sync.Map
}

func NewService(
	repo Repository,
	carts CartStore,
	state StateSource,
	submitter Submitter,
	collector *metrics.Collector,
	locateTimeout time.Duration,
) Service {
	if locateTimeout <= 0 {
		locateTimeout = geo.DefaultTimeout
	}
	return &service{
		repo:          repo,
		carts:         carts,
		state:         state,
		submitter:     submitter,
		metrics:       collector,
		locateTimeout: locateTimeout,
	}
}

func (s *service) Quote(ctx context.Context, sess *session.Claims, orderType pricing.OrderType) (*Quote, error) {
	if !orderType.Valid() {
		return nil, ErrInvalidOrderType
	}

	summary, err := s.carts.Summary(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}

	st := s.state.State()
	now := s.state.Now()
	checkout := pricing.ComputeCheckout(summary.Subtotal, orderType, st)

	q := &Quote{
		Checkout:         checkout,
		ItemCount:        summary.ItemCount,
		MinOrderProgress: pricing.MinOrderProgress(summary.Subtotal, st.MinOrderAmount),
		CanOrder:         true,
	}

	switch {
	case len(summary.Lines) == 0:
		q.CanOrder, q.Reason = false, ErrCartEmpty.Error()
	case orderType == pricing.OrderOnline && !restaurant.CanOrderOnline(st, now):
		q.CanOrder, q.Reason = false, ErrOrderingClosed.Error()
	case orderType == pricing.OrderInPerson && !restaurant.CanOrderInPerson(st, now):
		q.CanOrder, q.Reason = false, ErrOrderingClosed.Error()
	case orderType == pricing.OrderOnline && checkout.MinOrderGap.IsPositive():
		q.CanOrder, q.Reason = false, ErrMinimumOrderNotMet.Error()
	case orderType == pricing.OrderInPerson && !sess.HasTable():
		q.CanOrder, q.Reason = false, ErrTableRequired.Error()
	}
	return q, nil
}

func (s *service) Checkout(ctx context.Context, sess *session.Claims, req CheckoutRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("session_id", sess.SessionID),
		zap.String("order_type", string(req.OrderType)),
	)

	// 1️⃣ One checkout at a time per session
	if _, busy := s.inflight.LoadOrStore(sess.SessionID, struct{}{}); busy {
		log.Warn("checkout already in progress")
		s.metrics.CheckoutRejected("in_flight")
		return nil, ErrSubmissionInProgress
	}
	defer s.inflight.Delete(sess.SessionID)

	if !req.OrderType.Valid() {
		return nil, s.reject(log, "order_type", ErrInvalidOrderType)
	}

	summary, err := s.carts.Summary(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}
	if len(summary.Lines) == 0 {
		return nil, s.reject(log, "cart_empty", ErrCartEmpty)
	}

	st := s.state.State()
	now := s.state.Now()
	checkout := pricing.ComputeCheckout(summary.Subtotal, req.OrderType, st)

	// 2️⃣ Eligibility for the chosen channel
	if err := s.validate(ctx, log, st, now, sess, req, checkout); err != nil {
		return nil, err
	}

	// 3️⃣ Submit
	payload := BuildPayload(st, summary, checkout, req, sess.TableNumber, now)

	res, err := s.submitter.Submit(ctx, payload)
	if err != nil {
		log.Error("order submission failed", zap.Error(err))
		s.metrics.CheckoutRejected("upstream")
		if errors.Is(err, ErrSubmissionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	o := &Order{
		Payload:   payload,
		ID:        res.ID,
		Status:    res.Status,
		SessionID: sess.SessionID,
		Checkout:  checkout,
		Mode:      s.submitter.Mode(),
		UpdatedAt: payload.CreatedAt,
	}

	// 4️⃣ Record history; the order is already placed, so a failure here
	// is logged rather than returned.
	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to save order history", zap.String("order_id", o.ID), zap.Error(err))
	}

	// Lines added while the submit was in flight stay in the cart.
	if err := s.carts.RemoveLines(ctx, sess.SessionID, summary.LineIDs()); err != nil {
		log.Warn("failed to remove submitted lines", zap.Error(err))
	}

	s.metrics.OrderSubmitted(string(req.OrderType), o.Mode)
	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.String("mode", o.Mode),
		zap.String("total", o.TotalAmount.String()),
	)
	return o, nil
}

func (s *service) validate(
	ctx context.Context,
	log *zap.Logger,
	st restaurant.State,
	now time.Time,
	sess *session.Claims,
	req CheckoutRequest,
	checkout pricing.Checkout,
) error {
	switch req.OrderType {
	case pricing.OrderOnline:
		if !restaurant.CanOrderOnline(st, now) {
			return s.reject(log, "closed", ErrOrderingClosed)
		}
		if checkout.MinOrderGap.IsPositive() {
			return s.reject(log, "min_order",
				fmt.Errorf("%w: %s more needed", ErrMinimumOrderNotMet, checkout.MinOrderGap.StringFixed(2)))
		}
		if err := validateCustomer(req.Customer); err != nil {
			return s.reject(log, "customer", err)
		}
		pm, ok := st.PaymentMethod(req.PaymentMethodID)
		if !ok || !pm.Enabled {
			return s.reject(log, "payment_method", ErrPaymentMethodRequired)
		}
		return s.checkDistance(ctx, log, st, req.Coordinates, st.MaxDistance)

	case pricing.OrderInPerson:
		if !restaurant.CanOrderInPerson(st, now) {
			return s.reject(log, "closed", ErrOrderingClosed)
		}
		if !sess.HasTable() {
			return s.reject(log, "table", ErrTableRequired)
		}
		if st.CheckTableOrderDistance {
			return s.checkDistance(ctx, log, st, req.Coordinates, geo.MetersToKm(st.MaxTableOrderDistanceMeter))
		}
	}
	return nil
}

func (s *service) checkDistance(
	ctx context.Context,
	log *zap.Logger,
	st restaurant.State,
	coords *geo.Coordinates,
	maxKm float64,
) error {
	customer, err := geo.Acquire(ctx, geo.Fixed(coords), s.locateTimeout)
	if err != nil {
		return s.reject(log, "location", fmt.Errorf("%w: %w", ErrLocationRequired, err))
	}

	if !geo.WithinRange(customer, st.Coordinates(), maxKm) {
		d := geo.DistanceKm(customer, st.Coordinates())
		log.Info("customer out of range", zap.Float64("distance_km", d), zap.Float64("max_km", maxKm))
		return s.reject(log, "out_of_range",
			fmt.Errorf("%w: %.2f km, max %.2f km", ErrOutOfRange, d, maxKm))
	}
	return nil
}

func (s *service) reject(log *zap.Logger, reason string, err error) error {
	log.Info("checkout rejected", zap.String("reason", reason), zap.Error(err))
	s.metrics.CheckoutRejected(reason)
	return err
}

func validateCustomer(c *CustomerInfo) error {
	if c == nil ||
		strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Phone) == "" ||
		strings.TrimSpace(c.Address) == "" {
		return ErrCustomerInfoRequired
	}
	if !utils.IsValidPhone(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]*Order, error) {
	return s.repo.ListBySession(ctx, sessionID, DefaultHistoryLimit)
}

// UpdateStatus applies a status pushed by the restaurant side. Delivered
// and cancelled orders are final.
func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	if !status.Valid() {
		return ErrInvalidStatus
	}

	current, err := s.repo.GetStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if current == status {
		return nil
	}
	if current.Terminal() {
		log.Warn("status change on final order", zap.String("current", string(current)))
		return fmt.Errorf("%w: order is %s", ErrInvalidStatusTransition, current)
	}

	return s.repo.UpdateStatus(ctx, orderID, status)
}
