package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "extractive-summarizer/pkg/config"
)

// Scorer backends.
const (
	ScorerBackendGRPC = "grpc"
	ScorerBackendHTTP = "http"
	ScorerBackendNoop = "noop"
)

// ScorerConfig holds configuration for the salience scorer connection.
type ScorerConfig struct {
	// Backend selects the scorer transport: "grpc", "http" or "noop".
	// Default: "grpc"
	Backend string

	// GRPCAddress is the model server gRPC address.
	// Format: "host:port" (e.g., "localhost:50051")
	// Default: "localhost:50051"
	GRPCAddress string

	// URL is the base URL of the HTTP inference endpoint.
	// Default: "http://localhost:8080"
	URL string

	// ConnectionTimeout is the timeout for establishing the gRPC connection.
	// Default: 10 seconds
	ConnectionTimeout time.Duration

	// Timeout bounds a single batch scoring call.
	// Default: 30 seconds
	Timeout time.Duration

	// NoopScore is the constant score returned by the noop backend.
	// Default: 0.5
	NoopScore float64

	// RateLimit caps scorer calls per second across all requests. Zero disables it.
	// Default: 0
	RateLimit float64

	// RateBurst is the token bucket size when RateLimit is set.
	// Default: 1
	RateBurst int

	// Retry configures HTTP backend retries.
	Retry RetryConfig

	// CircuitBreaker for scorer calls.
	CircuitBreaker CircuitBreakerConfig
}

// RetryConfig holds retry settings for the HTTP scorer.
type RetryConfig struct {
	// MaxAttempts including the first call. Default: 3
	MaxAttempts int
	// InitialDelay before the first retry. Default: 200ms
	InitialDelay time.Duration
	// MaxDelay between retries. Default: 2s
	MaxDelay time.Duration
}

// CircuitBreakerConfig for scorer resilience.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32

	// Interval for clearing failure counts.
	Interval time.Duration

	// Timeout before transitioning from open to half-open.
	Timeout time.Duration

	// FailureThreshold ratio to trip circuit (0.0 to 1.0).
	FailureThreshold float64

	// MinRequests before calculating failure ratio.
	MinRequests uint32
}

// LoadScorerConfig loads scorer configuration from environment variables.
// Returns a config with defaults if environment variables are not set.
func LoadScorerConfig() (*ScorerConfig, error) {
	config := &ScorerConfig{
		Backend:           strings.ToLower(pkgconfig.GetEnvString("SCORER_BACKEND", ScorerBackendGRPC)),
		GRPCAddress:       pkgconfig.GetEnvString("SCORER_GRPC_ADDRESS", "localhost:50051"),
		URL:               pkgconfig.GetEnvString("SCORER_URL", "http://localhost:8080"),
		ConnectionTimeout: pkgconfig.GetEnvDuration("SCORER_CONNECTION_TIMEOUT", 10*time.Second),
		Timeout:           pkgconfig.GetEnvDuration("SCORER_TIMEOUT", 30*time.Second),
		NoopScore:         pkgconfig.GetEnvFloat("SCORER_NOOP_SCORE", 0.5),
		RateLimit:         pkgconfig.GetEnvFloat("SCORER_RATE_LIMIT", 0),
		RateBurst:         pkgconfig.GetEnvInt("SCORER_RATE_BURST", 1),
		Retry: RetryConfig{
			MaxAttempts:  pkgconfig.GetEnvInt("SCORER_RETRY_MAX_ATTEMPTS", 3),
			InitialDelay: pkgconfig.GetEnvDuration("SCORER_RETRY_INITIAL_DELAY", 200*time.Millisecond),
			MaxDelay:     pkgconfig.GetEnvDuration("SCORER_RETRY_MAX_DELAY", 2*time.Second),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(max(0, pkgconfig.GetEnvInt("SCORER_CB_MAX_REQUESTS", 3))),
			Interval:         pkgconfig.GetEnvDuration("SCORER_CB_INTERVAL", 10*time.Second),
			Timeout:          pkgconfig.GetEnvDuration("SCORER_CB_TIMEOUT", 30*time.Second),
			FailureThreshold: pkgconfig.GetEnvFloat("SCORER_CB_FAILURE_THRESHOLD", 0.6),
			MinRequests:      uint32(max(0, pkgconfig.GetEnvInt("SCORER_CB_MIN_REQUESTS", 5))),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer configuration: %w", err)
	}

	return config, nil
}

// Validate checks configuration correctness.
func (c *ScorerConfig) Validate() error {
	switch c.Backend {
	case ScorerBackendGRPC:
		if c.GRPCAddress == "" {
			return fmt.Errorf("SCORER_GRPC_ADDRESS cannot be empty")
		}
		if c.ConnectionTimeout <= 0 {
			return fmt.Errorf("SCORER_CONNECTION_TIMEOUT must be positive")
		}
	case ScorerBackendHTTP:
		if c.URL == "" {
			return fmt.Errorf("SCORER_URL cannot be empty")
		}
		if c.Retry.MaxAttempts < 1 {
			return fmt.Errorf("SCORER_RETRY_MAX_ATTEMPTS must be positive")
		}
		if err := pkgconfig.ValidateNonNegativeDuration(c.Retry.InitialDelay); err != nil {
			return fmt.Errorf("SCORER_RETRY_INITIAL_DELAY: %w", err)
		}
		if c.Retry.MaxDelay < c.Retry.InitialDelay {
			return fmt.Errorf("SCORER_RETRY_MAX_DELAY must not be less than SCORER_RETRY_INITIAL_DELAY")
		}
	case ScorerBackendNoop:
		if c.NoopScore < 0 || c.NoopScore > 1 {
			return fmt.Errorf("SCORER_NOOP_SCORE must be between 0.0 and 1.0")
		}
	default:
		return fmt.Errorf("SCORER_BACKEND must be one of %q, %q or %q", ScorerBackendGRPC, ScorerBackendHTTP, ScorerBackendNoop)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("SCORER_TIMEOUT must be positive")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("SCORER_RATE_LIMIT must be non-negative")
	}

	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("SCORER_RATE_BURST must be positive")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("SCORER_CB_MAX_REQUESTS must be positive")
	}

	if c.CircuitBreaker.Interval <= 0 {
		return fmt.Errorf("SCORER_CB_INTERVAL must be positive")
	}

	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("SCORER_CB_TIMEOUT must be positive")
	}

	if c.CircuitBreaker.FailureThreshold <= 0 || c.CircuitBreaker.FailureThreshold > 1 {
		return fmt.Errorf("SCORER_CB_FAILURE_THRESHOLD must be between 0.0 (exclusive) and 1.0")
	}

	return nil
}
