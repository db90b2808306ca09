package scorer

import (
	"context"

	"extractive-summarizer/internal/config"
)

// NoopScorer gives every sentence the same score. With the default score of
// 0.5 and threshold of 0.5 every candidate passes, so the summary is the
// leading top_k sentences. Used for development and tests without a model.
type NoopScorer struct {
	score float64
}

// NewNoopScorer creates a constant scorer.
func NewNoopScorer(score float64) *NoopScorer {
	return &NoopScorer{score: score}
}

// Backend returns config.ScorerBackendNoop.
func (s *NoopScorer) Backend() string { return config.ScorerBackendNoop }

// Score returns the constant score for each sentence.
func (s *NoopScorer) Score(ctx context.Context, batch []string, _ int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(batch))
	for i := range out {
		out[i] = s.score
	}
	return out, nil
}

// Health always reports healthy.
func (s *NoopScorer) Health(ctx context.Context) (*HealthStatus, error) {
	return &HealthStatus{
		Healthy: true,
		Message: "noop scorer",
	}, nil
}

// Close is a no-op for the noop scorer.
func (s *NoopScorer) Close() error {
	return nil
}
