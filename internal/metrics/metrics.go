// Package metrics holds the Prometheus collectors for an oxy process.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Handshake results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Traffic directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Metrics tracks handshakes, connections and traffic for one process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Handshakes       *prometheus.CounterVec
	HandshakeLatency prometheus.Histogram
	ActiveConns      prometheus.Gauge
	Bytes            *prometheus.CounterVec
	ConnErrors       prometheus.Counter

	active atomic.Int64
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Handshakes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oxy_handshakes_total",
				Help: "Handshakes processed, by result",
			},
			[]string{"result"},
		),
		HandshakeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "oxy_handshake_duration_seconds",
				Help:    "Time from connection start to established session",
				Buckets: prometheus.DefBuckets,
			},
		),
		ActiveConns: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "oxy_active_connections",
				Help: "Connections currently owned by a loop",
			},
		),
		Bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oxy_frame_bytes_total",
				Help: "Framed bytes moved after the handshake, by direction",
			},
			[]string{"direction"},
		),
		ConnErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "oxy_connection_errors_total",
				Help: "Connections that ended with an error",
			},
		),
	}
}

// HandshakeDone records one handshake outcome.
func (m *Metrics) HandshakeDone(accepted bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	if !accepted {
		m.Handshakes.WithLabelValues(ResultRejected).Inc()
		return
	}
	m.Handshakes.WithLabelValues(ResultAccepted).Inc()
	m.HandshakeLatency.Observe(elapsed.Seconds())
}

// ConnOpened increments the active connection gauge.
func (m *Metrics) ConnOpened() {
	if m != nil {
		m.active.Add(1)
		m.ActiveConns.Inc()
	}
}

// ConnClosed decrements the active connection gauge and counts failures.
func (m *Metrics) ConnClosed(err error) {
	if m == nil {
		return
	}
	m.active.Add(-1)
	m.ActiveConns.Dec()
	if err != nil {
		m.ConnErrors.Inc()
	}
}

// AddBytes counts n framed bytes in direction.
func (m *Metrics) AddBytes(direction string, n int) {
	if m != nil && n > 0 {
		m.Bytes.WithLabelValues(direction).Add(float64(n))
	}
}

// Active returns the number of open connections.
func (m *Metrics) Active() int64 {
	if m == nil {
		return 0
	}
	return m.active.Load()
}
