package forms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eatery",
		Subsystem: "forms",
		Name:      "submissions_total",
		Help:      "Form submissions by kind and outcome.",
	}, []string{"kind", "outcome"})

	upstreamSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eatery",
		Subsystem: "forms",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of the external form endpoints.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
)

// Outcome labels.
const (
	outcomeDelivered   = "delivered"
	outcomeRateLimited = "rate_limited"
	outcomeInvalid     = "invalid"
	outcomeUpstream    = "upstream_error"
	outcomeError       = "error"
)
