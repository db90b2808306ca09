// Package circuitbreaker fails scorer calls fast while the model server is
// down. It is a thin typed layer over github.com/sony/gobreaker.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string

	// MaxRequests is how many probe calls pass while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counters. Zero never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0 to 1) that opens the breaker
	// once MinRequests calls were seen in the current interval.
	FailureThreshold float64
	MinRequests      uint32

	// OnStateChange runs after every transition, in addition to logging.
	OnStateChange func(name string, from, to gobreaker.State)

	// Logger receives transitions. Nil means slog.Default().
	Logger *slog.Logger
}

// CircuitBreaker guards one scorer backend.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a breaker from cfg.
//
// A call that ends in context.Canceled is recorded as a success: a client
// hanging up says nothing about the scorer.
func New(cfg Config) *CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return tripped(counts, cfg.MinRequests, cfg.FailureThreshold)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

func tripped(counts gobreaker.Counts, minRequests uint32, threshold float64) bool {
	if counts.Requests == 0 || counts.Requests < minRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
}

// Call runs fn through cb. While open it returns gobreaker.ErrOpenState
// without calling fn; while half-open, calls past MaxRequests get
// gobreaker.ErrTooManyRequests.
func Call[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	v, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Counts returns the counters of the current generation.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err came from the breaker refusing the call
// rather than from the guarded function.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
