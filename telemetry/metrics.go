// Package telemetry exports Prometheus metrics for SDK request traffic.
// Attach a Metrics to a client with relaycast.WithObserver; the dispatch
// core behaves identically with or without it.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements the client's Observer interface. Outcome is "ok" or
// the error kind name, so dashboards can split traffic by taxonomy kind
// without parsing messages.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaycast_requests_total",
				Help: "Requests executed through the SDK, by outcome.",
			},
			[]string{"method", "path", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relaycast_request_duration_seconds",
				Help:    "Wall time per executed request.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// Observe records one executed request.
func (m *Metrics) Observe(method, path, outcome string, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, outcome).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
