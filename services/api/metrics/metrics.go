// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceFetchDuration times each adapter call. outcome is "ok" or "error".
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parking_source_fetch_duration_seconds",
			Help:    "Duration of parking source fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "outcome"},
	)

	// SourceFallbacks counts requests served from the mock dataset.
	SourceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_source_fallbacks_total",
			Help: "Total number of source failures answered with mock data",
		},
		[]string{"source"},
	)

	// RecordsServed observes the size of each merged, filtered response.
	RecordsServed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parking_records_served",
			Help:    "Number of parking records returned per request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// PredictionRequests counts forwarded prediction calls. outcome is
	// "success", "failure" or "rejected".
	PredictionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_upstream_requests_total",
			Help: "Total number of requests forwarded to the prediction service",
		},
		[]string{"endpoint", "outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTPRequestDuration times API requests by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
