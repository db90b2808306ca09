package summarize

import (
	"context"
	"fmt"
	"math"
)

// DefaultMaxInputTokens is the per-sentence truncation limit passed to the
// scorer when the inference configuration does not set one.
const DefaultMaxInputTokens = 2048

// Scorer assigns each sentence a salience score in [0, 1].
//
// Implementations must return exactly one score per input sentence, in input
// order, and must be safe for concurrent use. maxLength is the per-sentence
// input truncation limit in model tokens. A scorer's output must not depend on
// how sentences are grouped into batches.
type Scorer interface {
	Score(ctx context.Context, batch []string, maxLength int) ([]float64, error)
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(ctx context.Context, batch []string, maxLength int) ([]float64, error)

// Score calls f(ctx, batch, maxLength).
func (f ScorerFunc) Score(ctx context.Context, batch []string, maxLength int) ([]float64, error) {
	return f(ctx, batch, maxLength)
}

// validateScores checks the scorer output contract for one batch.
func validateScores(batch []string, scores []float64) error {
	if len(scores) != len(batch) {
		return fmt.Errorf("scorer returned %d scores for %d sentences", len(scores), len(batch))
	}
	for i, sc := range scores {
		if math.IsNaN(sc) || sc < 0 || sc > 1 {
			return fmt.Errorf("score %v at index %d is outside [0, 1]", sc, i)
		}
	}
	return nil
}
