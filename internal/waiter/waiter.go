package waiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/metrics"
	"liwamenu-be/internal/restaurant"
	"liwamenu-be/internal/upstream"

	"go.uber.org/zap"
)

var (
	ErrTableRequired = errors.New("a table number is required to call a waiter")
	ErrReasonTooLong = errors.New("reason is too long")
	ErrCallFailed    = errors.New("failed to call waiter")
)

const maxReasonLength = 500

type StateSource interface {
	State() restaurant.State
	Now() time.Time
}

type Call struct {
	RestaurantID string    `json:"restaurantId"`
	TableNumber  int       `json:"tableNumber"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type Service interface {
	Call(ctx context.Context, tableNumber *int, reason string) (*Call, error)
}

type service struct {
	state   StateSource
	client  *upstream.Client
	metrics *metrics.Collector
}

func NewService(state StateSource, client *upstream.Client, collector *metrics.Collector) Service {
	return &service{state: state, client: client, metrics: collector}
}

// Call notifies staff at the diner's table. The endpoint's response body
// is not used.
func (s *service) Call(ctx context.Context, tableNumber *int, reason string) (*Call, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CallWaiter"),
	)

	if tableNumber == nil || *tableNumber <= 0 {
		return nil, ErrTableRequired
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return nil, ErrReasonTooLong
	}

	call := &Call{
		RestaurantID: s.state.State().RestaurantID,
		TableNumber:  *tableNumber,
		Reason:       reason,
		Timestamp:    s.state.Now().UTC(),
	}

	if err := s.client.PostJSON(ctx, call, nil); err != nil {
		log.Error("waiter call failed", zap.Int("table", call.TableNumber), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCallFailed, err)
	}

	s.metrics.WaiterCalled()
	log.Info("waiter called", zap.Int("table", call.TableNumber))
	return call, nil
}
