package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus registry. A nil *Collector is a
// valid no-op, which keeps unit tests free of metric wiring.
type Collector struct {
	registry *prometheus.Registry

	ordersSubmitted  *prometheus.CounterVec
	checkoutRejected *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	codesSent        *prometheus.CounterVec
	waiterCalls      prometheus.Counter
	activeCarts      prometheus.GaugeFunc
}

// NewCollector registers the service metrics. activeCarts, when non-nil,
// is sampled on every scrape.
func NewCollector(activeCarts func() float64) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		ordersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_submitted_total",
				Help: "Orders accepted, by order type and submission mode",
			},
			[]string{"order_type", "mode"},
		),
		checkoutRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_rejected_total",
				Help: "Checkouts refused before submission, by reason",
			},
			[]string{"reason"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Latency of calls to the order, reservation and waiter endpoints",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target", "outcome"},
		),
		codesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_codes_sent_total",
				Help: "Reservation verification codes sent, by channel",
			},
			[]string{"channel"},
		),
		waiterCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waiter_calls_total",
			Help: "Call-waiter requests forwarded",
		}),
	}

	registry.MustRegister(
		c.ordersSubmitted,
		c.checkoutRejected,
		c.upstreamDuration,
		c.codesSent,
		c.waiterCalls,
		collectors.NewGoCollector(),
	)

	if activeCarts != nil {
		c.activeCarts = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "active_carts",
			Help: "Session carts currently held in memory",
		}, activeCarts)
		registry.MustRegister(c.activeCarts)
	}

	return c
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) OrderSubmitted(orderType, mode string) {
	if c == nil {
		return
	}
	c.ordersSubmitted.WithLabelValues(orderType, mode).Inc()
}

func (c *Collector) CheckoutRejected(reason string) {
	if c == nil {
		return
	}
	c.checkoutRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveUpstream(target, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamDuration.WithLabelValues(target, outcome).Observe(d.Seconds())
}

func (c *Collector) CodeSent(channel string) {
	if c == nil {
		return
	}
	c.codesSent.WithLabelValues(channel).Inc()
}

func (c *Collector) WaiterCalled() {
	if c == nil {
		return
	}
	c.waiterCalls.Inc()
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
