package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScorerConfig_Defaults(t *testing.T) {
	clearScorerEnvVars(t)

	config, err := LoadScorerConfig()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, ScorerBackendGRPC, config.Backend)
	assert.Equal(t, "localhost:50051", config.GRPCAddress)
	assert.Equal(t, "http://localhost:8080", config.URL)
	assert.Equal(t, 10*time.Second, config.ConnectionTimeout)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 0.5, config.NoopScore)
	assert.Zero(t, config.RateLimit)
	assert.Equal(t, 1, config.RateBurst)

	// Retry
	assert.Equal(t, 3, config.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, config.Retry.InitialDelay)
	assert.Equal(t, 2*time.Second, config.Retry.MaxDelay)

	// Circuit Breaker
	assert.Equal(t, uint32(3), config.CircuitBreaker.MaxRequests)
	assert.Equal(t, 10*time.Second, config.CircuitBreaker.Interval)
	assert.Equal(t, 30*time.Second, config.CircuitBreaker.Timeout)
	assert.Equal(t, 0.6, config.CircuitBreaker.FailureThreshold)
	assert.Equal(t, uint32(5), config.CircuitBreaker.MinRequests)
}

func TestLoadScorerConfig_CustomValues(t *testing.T) {
	clearScorerEnvVars(t)

	setEnv(t, "SCORER_BACKEND", "HTTP")
	setEnv(t, "SCORER_URL", "http://scorer:9000")
	setEnv(t, "SCORER_TIMEOUT", "5s")
	setEnv(t, "SCORER_RATE_LIMIT", "20")
	setEnv(t, "SCORER_RATE_BURST", "4")
	setEnv(t, "SCORER_RETRY_MAX_ATTEMPTS", "5")
	setEnv(t, "SCORER_RETRY_INITIAL_DELAY", "50ms")
	setEnv(t, "SCORER_RETRY_MAX_DELAY", "1s")
	setEnv(t, "SCORER_CB_MAX_REQUESTS", "1")
	setEnv(t, "SCORER_CB_FAILURE_THRESHOLD", "0.25")

	config, err := LoadScorerConfig()
	require.NoError(t, err)

	assert.Equal(t, ScorerBackendHTTP, config.Backend, "backend is case-insensitive")
	assert.Equal(t, "http://scorer:9000", config.URL)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 20.0, config.RateLimit)
	assert.Equal(t, 4, config.RateBurst)
	assert.Equal(t, 5, config.Retry.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, config.Retry.InitialDelay)
	assert.Equal(t, time.Second, config.Retry.MaxDelay)
	assert.Equal(t, uint32(1), config.CircuitBreaker.MaxRequests)
	assert.Equal(t, 0.25, config.CircuitBreaker.FailureThreshold)
}

func TestLoadScorerConfig_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearScorerEnvVars(t)

	setEnv(t, "SCORER_TIMEOUT", "soon")
	setEnv(t, "SCORER_NOOP_SCORE", "half")
	setEnv(t, "SCORER_RATE_BURST", "many")

	config, err := LoadScorerConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 0.5, config.NoopScore)
	assert.Equal(t, 1, config.RateBurst)
}

func TestLoadScorerConfig_UnknownBackend(t *testing.T) {
	clearScorerEnvVars(t)
	setEnv(t, "SCORER_BACKEND", "onnx")

	config, err := LoadScorerConfig()
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "SCORER_BACKEND")
}

func TestScorerConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ScorerConfig)
		expectErr string
	}{
		{
			name:   "valid grpc config",
			mutate: func(c *ScorerConfig) {},
		},
		{
			name:      "empty grpc address",
			mutate:    func(c *ScorerConfig) { c.GRPCAddress = "" },
			expectErr: "SCORER_GRPC_ADDRESS cannot be empty",
		},
		{
			name:      "zero connection timeout",
			mutate:    func(c *ScorerConfig) { c.ConnectionTimeout = 0 },
			expectErr: "SCORER_CONNECTION_TIMEOUT must be positive",
		},
		{
			name: "http backend without url",
			mutate: func(c *ScorerConfig) {
				c.Backend = ScorerBackendHTTP
				c.URL = ""
			},
			expectErr: "SCORER_URL cannot be empty",
		},
		{
			name: "http backend without attempts",
			mutate: func(c *ScorerConfig) {
				c.Backend = ScorerBackendHTTP
				c.Retry.MaxAttempts = 0
			},
			expectErr: "SCORER_RETRY_MAX_ATTEMPTS must be positive",
		},
		{
			name: "http backend with inverted delays",
			mutate: func(c *ScorerConfig) {
				c.Backend = ScorerBackendHTTP
				c.Retry.MaxDelay = time.Millisecond
			},
			expectErr: "SCORER_RETRY_MAX_DELAY",
		},
		{
			name: "noop score out of range",
			mutate: func(c *ScorerConfig) {
				c.Backend = ScorerBackendNoop
				c.NoopScore = 1.5
			},
			expectErr: "SCORER_NOOP_SCORE must be between 0.0 and 1.0",
		},
		{
			name: "noop backend ignores grpc address",
			mutate: func(c *ScorerConfig) {
				c.Backend = ScorerBackendNoop
				c.GRPCAddress = ""
			},
		},
		{
			name:      "zero timeout",
			mutate:    func(c *ScorerConfig) { c.Timeout = 0 },
			expectErr: "SCORER_TIMEOUT must be positive",
		},
		{
			name:      "negative rate limit",
			mutate:    func(c *ScorerConfig) { c.RateLimit = -1 },
			expectErr: "SCORER_RATE_LIMIT must be non-negative",
		},
		{
			name: "rate limit without burst",
			mutate: func(c *ScorerConfig) {
				c.RateLimit = 10
				c.RateBurst = 0
			},
			expectErr: "SCORER_RATE_BURST must be positive",
		},
		{
			name:      "zero circuit breaker max requests",
			mutate:    func(c *ScorerConfig) { c.CircuitBreaker.MaxRequests = 0 },
			expectErr: "SCORER_CB_MAX_REQUESTS must be positive",
		},
		{
			name:      "failure threshold above one",
			mutate:    func(c *ScorerConfig) { c.CircuitBreaker.FailureThreshold = 1.1 },
			expectErr: "SCORER_CB_FAILURE_THRESHOLD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validScorerConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

// Helper functions

func clearScorerEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SCORER_BACKEND",
		"SCORER_GRPC_ADDRESS",
		"SCORER_URL",
		"SCORER_CONNECTION_TIMEOUT",
		"SCORER_TIMEOUT",
		"SCORER_NOOP_SCORE",
		"SCORER_RATE_LIMIT",
		"SCORER_RATE_BURST",
		"SCORER_RETRY_MAX_ATTEMPTS",
		"SCORER_RETRY_INITIAL_DELAY",
		"SCORER_RETRY_MAX_DELAY",
		"SCORER_CB_MAX_REQUESTS",
		"SCORER_CB_INTERVAL",
		"SCORER_CB_TIMEOUT",
		"SCORER_CB_FAILURE_THRESHOLD",
		"SCORER_CB_MIN_REQUESTS",
	}
	for _, key := range envVars {
		unsetEnv(t, key)
	}
}

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Cleanup(func() {
		_ = os.Unsetenv(key) // Ignore error in cleanup
	})
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if prev, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { _ = os.Setenv(key, prev) })
	}
	_ = os.Unsetenv(key)
}

func validScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		Backend:           ScorerBackendGRPC,
		GRPCAddress:       "localhost:50051",
		URL:               "http://localhost:8080",
		ConnectionTimeout: 10 * time.Second,
		Timeout:           30 * time.Second,
		NoopScore:         0.5,
		RateBurst:         1,
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      3,
			Interval:         10 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
	}
}
