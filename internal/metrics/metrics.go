package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. It satisfies points.Observer.
type Metrics struct {
	operations   *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	lockWait     *prometheus.HistogramVec
	lockTimeouts *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "points_operations_total",
				Help: "Point operations by outcome code.",
			},
			[]string{"op", "code"},
		),
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "points_operation_duration_seconds",
				Help:    "Duration of point operations, lock wait included.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		lockWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "points_lock_wait_seconds",
				Help:    "Time spent waiting for a user's lock.",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5, 5},
			},
			[]string{"op"},
		),
		lockTimeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "points_lock_timeouts_total",
				Help: "Lock waits that ended without the lock.",
			},
			[]string{"op"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.operations, m.opDuration, m.lockWait, m.lockTimeouts, m.httpLatency)

	return m
}

func (m *Metrics) ObserveOperation(op, code string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, code).Inc()
	m.opDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLockWait(op string, elapsed time.Duration, acquired bool) {
	m.lockWait.WithLabelValues(op).Observe(elapsed.Seconds())

	if !acquired {
		m.lockTimeouts.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
