package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for EventsTotal.
const (
	OutcomeStored   = "stored"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// Ingest
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hitcounter_events_total",
			Help: "Total number of page-view pings by outcome",
		},
		[]string{"outcome"},
	)

	NormalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hitcounter_normalization_duration_seconds",
			Help:    "Duration of event normalization in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)

	// Storage
	StorageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hitcounter_storage_duration_seconds",
			Help:    "Duration of MongoDB insert operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hitcounter_storage_errors_total",
			Help: "Total number of failed MongoDB inserts",
		},
	)

	// Event stream
	StreamPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hitcounter_stream_messages_total",
			Help: "Total number of event stream publish attempts by status",
		},
		[]string{"topic", "status"},
	)

	StreamPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hitcounter_stream_publish_duration_seconds",
			Help:    "Duration of event stream publishes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hitcounter_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hitcounter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hitcounter_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	CORSRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hitcounter_cors_rejected_origins_total",
			Help: "Total number of requests carrying an origin outside the allow list",
		},
	)
)
