package scorer

import (
	"fmt"
	"math"
)

// Normalize turns per-sentence classifier logits into salience probabilities.
//
// Rows of two logits are binary classification heads: the probability is
// the softmax of the positive class (index 1). Rows of one logit are
// single-output heads and go through a sigmoid. All rows must share a shape.
func Normalize(logits [][]float64) ([]float64, error) {
	if len(logits) == 0 {
		return []float64{}, nil
	}

	width := len(logits[0])
	out := make([]float64, len(logits))
	for i, row := range logits {
		if len(row) != width {
			return nil, fmt.Errorf("%w: logits row %d has %d values, want %d", ErrInvalidOutput, i, len(row), width)
		}
		switch width {
		case 2:
			out[i] = softmaxPositive(row[0], row[1])
		case 1:
			out[i] = sigmoid(row[0])
		default:
			return nil, fmt.Errorf("%w: unsupported logits width %d", ErrInvalidOutput, width)
		}
	}
	return out, nil
}

// softmaxPositive returns exp(pos) / (exp(neg) + exp(pos)) without overflow.
func softmaxPositive(neg, pos float64) float64 {
	return sigmoid(pos - neg)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
