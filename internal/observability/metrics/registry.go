// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	// Buckets stretch to 30s because scorer-bound requests run long.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks the number of requests being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Summarization metrics track the sentence selection pipeline
var (
	// SummariesTotal counts summarization requests by outcome
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of summarization requests",
		},
		[]string{"status"}, // status: success, scorer_error
	)

	// SummarizationDuration measures end-to-end pipeline time
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to run the sentence selection pipeline",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
	)

	// SentencesSegmented measures how many candidate sentences each document yields
	SentencesSegmented = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_sentences_segmented",
			Help:    "Number of candidate sentences per document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// SentencesSelected measures how many sentences are kept per summary
	SentencesSelected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_sentences_selected",
			Help:    "Number of sentences kept per summary",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 13, 21, 34},
		},
	)

	// SegmentationFallbacksTotal counts degenerate-input recovery paths
	SegmentationFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarization_segmentation_fallbacks_total",
			Help: "Total number of segmentation fallbacks",
		},
		[]string{"kind"}, // kind: whole_text, secondary_split
	)

	// SelectionFallbacksTotal counts requests where no sentence met the threshold
	SelectionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summarization_selection_fallbacks_total",
			Help: "Total number of selections that fell back to the top-k set",
		},
	)

	// ScorerBatchDuration measures per-batch scoring latency
	ScorerBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_scorer_batch_duration_seconds",
			Help:    "Time taken to score one batch of sentences",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
