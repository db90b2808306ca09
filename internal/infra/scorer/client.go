// Package scorer provides salience scorer adapters: a gRPC and an HTTP
// client for remote model servers, a constant no-op scorer, and a
// rate-limiting decorator.
package scorer

import (
	"context"
	"fmt"

	"extractive-summarizer/internal/config"
	"extractive-summarizer/internal/usecase/summarize"
)

// Client is a scorer with lifecycle and health reporting.
type Client interface {
	summarize.Scorer

	// Backend names the transport ("grpc", "http" or "noop").
	Backend() string

	// Health reports whether the backend can currently serve requests.
	Health(ctx context.Context) (*HealthStatus, error)

	// Close releases resources held by the client.
	Close() error
}

var (
	_ Client = (*GRPCScorer)(nil)
	_ Client = (*HTTPScorer)(nil)
	_ Client = (*NoopScorer)(nil)
	_ Client = (*RateLimited)(nil)
)

// New creates the scorer selected by cfg.Backend, wrapped in a rate limiter
// when cfg.RateLimit is positive.
func New(cfg *config.ScorerConfig) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scorer config is required")
	}

	var (
		client Client
		err    error
	)
	switch cfg.Backend {
	case config.ScorerBackendGRPC:
		client, err = NewGRPCScorer(cfg)
	case config.ScorerBackendHTTP:
		client, err = NewHTTPScorer(cfg, nil)
	case config.ScorerBackendNoop:
		client = NewNoopScorer(cfg.NoopScore)
	default:
		err = fmt.Errorf("unknown scorer backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		client = NewRateLimited(client, cfg.RateLimit, cfg.RateBurst)
	}
	return client, nil
}
