package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"extractive-summarizer/internal/config"
	"extractive-summarizer/internal/observability/tracing"
	"extractive-summarizer/internal/resilience/circuitbreaker"
	"extractive-summarizer/internal/resilience/retry"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// scorePath is appended to the configured base URL.
	scorePath = "/score"

	// healthPath is probed by Health.
	healthPath = "/healthz"

	// maxResponseBytes caps the decoded response body.
	maxResponseBytes = 4 << 20

	// maxErrorBodyBytes caps how much of an error body ends up in messages.
	maxErrorBodyBytes = 512
)

// HTTPScorer scores sentences by POSTing JSON batches to a model server.
//
//	POST {URL}/score  {"sentences": [...], "max_length": 2048}
//	200               {"probabilities": [...]} or {"logits": [[...], ...]}
//
// 5xx, 429 and 408 responses and transient network errors are retried with
// exponential backoff. The retried call as a whole counts once towards the
// circuit breaker.
type HTTPScorer struct {
	client         *http.Client
	baseURL        string
	timeout        time.Duration
	retry          retry.Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *slog.Logger
}

// NewHTTPScorer creates an HTTP scorer. client may be nil.
func NewHTTPScorer(cfg *config.ScorerConfig, client *http.Client) (*HTTPScorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scorer config is required")
	}
	if client == nil {
		client = &http.Client{}
	}

	logger := slog.Default()
	rc := retry.ScorerConfig()
	rc.Logger = logger
	rc.MaxAttempts = cfg.Retry.MaxAttempts
	rc.InitialDelay = cfg.Retry.InitialDelay
	rc.MaxDelay = cfg.Retry.MaxDelay
	rc.OnRetry = func(int, error) {
		scorerRetriesTotal.WithLabelValues(config.ScorerBackendHTTP).Inc()
	}

	return &HTTPScorer{
		client:         client,
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		timeout:        cfg.Timeout,
		retry:          rc,
		circuitBreaker: newCircuitBreaker("salience-scorer-http", cfg.CircuitBreaker),
		logger:         logger,
	}, nil
}

// Backend returns config.ScorerBackendHTTP.
func (s *HTTPScorer) Backend() string { return config.ScorerBackendHTTP }

// Score sends one batch to the model server.
func (s *HTTPScorer) Score(ctx context.Context, batch []string, maxLength int) ([]float64, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "scorer.http.Score")
	defer span.End()
	span.SetAttributes(attribute.Int("scorer.batch_size", len(batch)))

	body, err := json.Marshal(scoreRequest{Sentences: batch, MaxLength: maxLength})
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	scores, err := circuitbreaker.Call(s.circuitBreaker, func() ([]float64, error) {
		var resp scoreResponse
		err := retry.WithBackoff(ctx, s.retry, func() error {
			resp = scoreResponse{}
			return s.post(ctx, body, &resp)
		})
		if err != nil {
			return nil, classifyHTTPError(err)
		}
		return resp.scores(len(batch))
	})
	if err = observe(config.ScorerBackendHTTP, start, err); err != nil {
		tracing.RecordError(ctx, err)
		s.logger.Debug("http scorer call failed",
			slog.Int("batch_size", len(batch)),
			slog.Any("error", err))
		return nil, err
	}
	return scores, nil
}

// post performs a single attempt.
func (s *HTTPScorer) post(ctx context.Context, body []byte, out *scoreResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+scorePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidOutput, err)
	}
	return nil
}

// classifyHTTPError maps the final attempt's error onto adapter errors.
func classifyHTTPError(err error) error {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, ErrInvalidOutput):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && !retry.IsRetryable(httpErr):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

// Health probes {URL}/healthz.
func (s *HTTPScorer) Health(ctx context.Context) (*HealthStatus, error) {
	if s.circuitBreaker.IsOpen() {
		return &HealthStatus{
			Healthy:     false,
			Message:     "circuit breaker is open",
			CircuitOpen: true,
		}, nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+healthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &HealthStatus{
			Healthy: false,
			Latency: time.Since(start),
			Message: fmt.Sprintf("health probe failed: %v", err),
		}, nil
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))

	return &HealthStatus{
		Healthy: resp.StatusCode >= 200 && resp.StatusCode < 300,
		Latency: time.Since(start),
		Message: fmt.Sprintf("health probe status: %d", resp.StatusCode),
	}, nil
}

// Close releases idle connections.
func (s *HTTPScorer) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
