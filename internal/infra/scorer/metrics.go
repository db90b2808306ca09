package scorer

import (
	"errors"
	"fmt"
	"time"

	"extractive-summarizer/internal/config"
	"extractive-summarizer/internal/resilience/circuitbreaker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// Prometheus metrics for scorer clients
var (
	// scorerRequestsTotal tracks scoring calls by backend and outcome.
	scorerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_client_requests_total",
			Help: "Total number of scorer client requests",
		},
		[]string{"backend", "status"},
	)

	// scorerRequestDuration tracks scoring call latency for one batch.
	// Batches are small (16 sentences by default), so buckets start low.
	scorerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scorer_client_request_duration_seconds",
			Help:    "Scorer client request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"backend"},
	)

	// scorerRetriesTotal counts HTTP scorer retries.
	scorerRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_client_retries_total",
			Help: "Total number of scorer client retries",
		},
		[]string{"backend"},
	)

	// scorerRateLimitWait tracks time spent waiting for the rate limiter.
	scorerRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scorer_client_rate_limit_wait_seconds",
			Help:    "Time spent waiting for a scorer rate limit token",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// scorerCircuitBreakerState tracks circuit breaker state.
	// 0 = closed, 1 = open, 2 = half-open
	scorerCircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scorer_client_circuit_breaker_state",
			Help: "Scorer circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)

// updateCircuitBreakerMetric updates the circuit breaker state metric.
func updateCircuitBreakerMetric(name string, state gobreaker.State) {
	var value float64
	switch state {
	case gobreaker.StateClosed:
		value = 0
	case gobreaker.StateOpen:
		value = 1
	case gobreaker.StateHalfOpen:
		value = 2
	}
	scorerCircuitBreakerState.WithLabelValues(name).Set(value)
}

// newCircuitBreaker builds a breaker that reports its state to Prometheus.
func newCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		MaxRequests:      cfg.MaxRequests,
		Interval:         cfg.Interval,
		Timeout:          cfg.Timeout,
		FailureThreshold: cfg.FailureThreshold,
		MinRequests:      cfg.MinRequests,
		OnStateChange: func(name string, _, to gobreaker.State) {
			updateCircuitBreakerMetric(name, to)
		},
	})
	updateCircuitBreakerMetric(name, cb.State())
	return cb
}

// observe records duration and outcome of one scoring call and converts
// breaker rejections into ErrCircuitOpen.
func observe(backend string, start time.Time, err error) error {
	scorerRequestDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	status := "success"
	switch {
	case err == nil:
	case circuitbreaker.IsRejection(err):
		status = "circuit_breaker_open"
		err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	case errors.Is(err, ErrTimeout):
		status = "timeout"
	default:
		status = "error"
	}
	scorerRequestsTotal.WithLabelValues(backend, status).Inc()
	return err
}
