// Package metrics exposes a small set of Prometheus counters for the ring
// queue and the driver loop. Nothing in internal/queue or internal/book
// depends on this package directly; instrumentation is wired in by the
// caller (internal/driver, cmd/bench), so the core stays usable without a
// metrics registry at all.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the set of counters the driver loop and benchmark harness
// update as they run. The zero value is not usable; construct with New.
type Metrics struct {
	EnqueueSuccessTotal prometheus.Counter
	EnqueueFullTotal    prometheus.Counter
	DequeueEmptyTotal   prometheus.Counter
	OrdersAppliedTotal  prometheus.Counter
	TradesEmittedTotal  prometheus.Counter
	QueueDepth          prometheus.Gauge
}

// New registers and returns a Metrics bound to reg. If reg is nil, a
// private registry is created so callers that don't care about exporting
// metrics (tests, one-off demos) don't need to thread a *prometheus.Registry
// through just to get counters.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		EnqueueSuccessTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_ring_queue_enqueue_success_total",
			Help: "Number of ring queue enqueue attempts that succeeded.",
		}),
		EnqueueFullTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_ring_queue_enqueue_full_total",
			Help: "Number of ring queue enqueue attempts that found the buffer full.",
		}),
		DequeueEmptyTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_ring_queue_dequeue_empty_total",
			Help: "Number of ring queue dequeue attempts that found the buffer empty.",
		}),
		OrdersAppliedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_orders_applied_total",
			Help: "Number of orders the consumer has applied to the book.",
		}),
		TradesEmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_trades_emitted_total",
			Help: "Number of trades emitted by the matching engine.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_ring_queue_depth",
			Help: "Approximate number of items currently enqueued (head ticket minus tail ticket).",
		}),
	}

	reg.MustRegister(
		m.EnqueueSuccessTotal,
		m.EnqueueFullTotal,
		m.DequeueEmptyTotal,
		m.OrdersAppliedTotal,
		m.TradesEmittedTotal,
		m.QueueDepth,
	)
	return m
}
