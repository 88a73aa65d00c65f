// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring requests by feature",
		},
		[]string{"feature"},
	)

	RequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_failed_total",
			Help: "Total number of failed scoring requests by feature",
		},
		[]string{"feature", "error_code"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ai_call_duration_seconds",
			Help: "Duration of external AI capability calls in seconds",
		},
		[]string{"capability"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_fallbacks_total",
			Help: "Total number of deterministic fallbacks taken by estimators",
		},
		[]string{"feature"},
	)
)
