// Package metrics provides Prometheus metrics for the reserve server.
// It exports HTTP request metrics plus the engine's own counters:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - reserve_drugs_tracked: Gauge for the number of drugs in the store
//   - reserve_mutations_total: Counter with an action label
//   - reserve_flush_failures_total: Counter for failed persistence flushes
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	DrugsTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reserve_drugs_tracked",
			Help: "Number of drugs in the reserve store",
		},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reserve_mutations_total",
			Help: "Applied stock mutations by action",
		},
		[]string{"action"},
	)

	FlushFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reserve_flush_failures_total",
			Help: "Mutations that committed in memory but failed to flush",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(DrugsTracked)
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(FlushFailuresTotal)
}
