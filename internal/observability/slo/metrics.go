// Package slo publishes service level indicators for POST /summarize.
//
// Latency targets are set by scorer inference cost, not by the HTTP layer:
// a long document is scored in several batches of sixteen sentences.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets.
const (
	// AvailabilitySLO is the target percentage of non-5xx responses.
	AvailabilitySLO = 99.5

	// LatencyP95SLO is the p95 latency target in seconds.
	LatencyP95SLO = 2.0

	// LatencyP99SLO is the p99 latency target in seconds.
	LatencyP99SLO = 5.0

	// ErrorRateSLO is the maximum 5xx ratio.
	ErrorRateSLO = 0.005
)

// Gauges refreshed by Tracker.Publish from the recent request window.
var (
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Non-5xx ratio (0-1) of recent summarize requests, target: 0.995",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "p95 latency of recent summarize requests in seconds, target: 2",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "p99 latency of recent summarize requests in seconds, target: 5",
		},
	)

	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "5xx ratio (0-1) of recent summarize requests, target: 0.005",
		},
	)
)

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 sets the p95 latency gauge.
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 sets the p99 latency gauge.
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
