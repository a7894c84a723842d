package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/upstream"

	"go.uber.org/zap"
)

// Submitter hands an order to whoever assigns its id and initial status.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (*Submission, error)
	Mode() string
}

// NewSubmitter posts to the order endpoint. Without a configured endpoint
// it falls back to local id synthesis; this degraded mode is logged at
// startup.
func NewSubmitter(client *upstream.Client) Submitter {
	if client.Configured() {
		return &httpSubmitter{client: client}
	}
	logger.L().Warn("order endpoint not configured, orders get local ids",
		zap.String("mode", ModeLocal),
	)
	return &localSubmitter{now: time.Now}
}

type httpSubmitter struct {
	client *upstream.Client
}

type submissionResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	Status  Status `json:"status"`
}

func (h *httpSubmitter) Submit(ctx context.Context, p Payload) (*Submission, error) {
	var res submissionResponse
	if err := h.client.PostJSON(ctx, p, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	id := res.ID
	if id == "" {
		id = res.OrderID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: response carried no order id", ErrSubmissionFailed)
	}

	status := res.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrSubmissionFailed, status)
	}

	return &Submission{ID: id, Status: status}, nil
}

func (h *httpSubmitter) Mode() string { return ModeUpstream }

// localSubmitter ids are "order-<unix millis>". Two orders in the same
// millisecond get consecutive values so ids stay unique.
type localSubmitter struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (l *localSubmitter) Submit(_ context.Context, _ Payload) (*Submission, error) {
	l.mu.Lock()
	ms := l.now().UnixMilli()
	if ms <= l.last {
		ms = l.last + 1
	}
	l.last = ms
	l.mu.Unlock()

	return &Submission{
		ID:     fmt.Sprintf("order-%d", ms),
		Status: StatusPending,
	}, nil
}

func (l *localSubmitter) Mode() string { return ModeLocal }
