// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// UpstreamCalls counts calls to overpass / openai / ollama by outcome kind.
	UpstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Calls to upstream services by outcome",
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_call_duration_seconds",
			Help:    "Upstream call latency including retries",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 15, 30, 60},
		},
		[]string{"upstream"},
	)

	// CircuitBreakerState is 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	HistorySaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_saves_total",
			Help: "History store inserts by driver and outcome",
		},
		[]string{"driver", "outcome"},
	)
)

// ObserveUpstream records one upstream call and its outcome kind.
func ObserveUpstream(upstream string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = entities.KindOf(err).String()
	}
	UpstreamCalls.WithLabelValues(upstream, outcome).Inc()
	UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
}
