package summarize

import (
	"testing"

	"extractive-summarizer/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func scoredFrom(scores ...float64) []entity.ScoredSentence {
	out := make([]entity.ScoredSentence, len(scores))
	for i, s := range scores {
		out[i] = entity.ScoredSentence{Position: i, Score: s}
	}
	return out
}

func set(positions ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		out[p] = struct{}{}
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		cfg      entity.SelectionConfig
		want     map[int]struct{}
		fellBack bool
	}{
		{
			name:   "top-k then threshold",
			scores: []float64{0.9, 0.1, 0.5},
			cfg:    entity.SelectionConfig{TopK: 2, Threshold: 0.3},
			want:   set(0, 2),
		},
		{
			name:     "fallback keeps stable tie order",
			scores:   []float64{0.1, 0.1, 0.1},
			cfg:      entity.SelectionConfig{TopK: 2, Threshold: 0.5},
			want:     set(0, 1),
			fellBack: true,
		},
		{
			name:   "threshold trims inside top-k",
			scores: []float64{0.2, 0.8, 0.6, 0.4},
			cfg:    entity.SelectionConfig{TopK: 3, Threshold: 0.5},
			want:   set(1, 2),
		},
		{
			name:   "threshold is inclusive",
			scores: []float64{0.5, 0.49},
			cfg:    entity.SelectionConfig{TopK: 2, Threshold: 0.5},
			want:   set(0),
		},
		{
			name:   "top-k larger than input",
			scores: []float64{0.7, 0.9},
			cfg:    entity.SelectionConfig{TopK: 10, Threshold: 0},
			want:   set(0, 1),
		},
		{
			name:   "zero top-k coerced to one",
			scores: []float64{0.3, 0.9, 0.8},
			cfg:    entity.SelectionConfig{TopK: 0, Threshold: 0.5},
			want:   set(1),
		},
		{
			name:     "negative top-k coerced to one",
			scores:   []float64{0.3, 0.2},
			cfg:      entity.SelectionConfig{TopK: -4, Threshold: 0.5},
			want:     set(0),
			fellBack: true,
		},
		{
			name:     "threshold above one falls back",
			scores:   []float64{1, 0.9},
			cfg:      entity.SelectionConfig{TopK: 1, Threshold: 1.5},
			want:     set(0),
			fellBack: true,
		},
		{
			name:   "negative threshold keeps all of top-k",
			scores: []float64{0, 0, 0.1},
			cfg:    entity.SelectionConfig{TopK: 2, Threshold: -1},
			want:   set(2, 0),
		},
		{
			name:   "ties beyond the cut resolved by position",
			scores: []float64{0.4, 0.9, 0.4, 0.4},
			cfg:    entity.SelectionConfig{TopK: 2, Threshold: 0.1},
			want:   set(1, 0),
		},
		{
			name:     "single empty sentence",
			scores:   []float64{0},
			cfg:      entity.SelectionConfig{TopK: 3, Threshold: 0.5},
			want:     set(0),
			fellBack: true,
		},
		{
			name:   "no sentences",
			scores: nil,
			cfg:    entity.SelectionConfig{TopK: 3, Threshold: 0.5},
			want:   set(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := selectTop(scoredFrom(tt.scores...), tt.cfg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fellBack, fellBack)
			assert.Equal(t, tt.want, Select(scoredFrom(tt.scores...), tt.cfg))
		})
	}
}

func TestSelect_NonEmptyForNonEmptyInput(t *testing.T) {
	inputs := [][]float64{
		{0},
		{0, 0, 0},
		{1, 0.5, 0.25},
		{0.33, 0.66, 0.99, 0.01},
	}
	configs := []entity.SelectionConfig{
		{TopK: -1, Threshold: 2},
		{TopK: 0, Threshold: 0},
		{TopK: 1, Threshold: 0.5},
		{TopK: 100, Threshold: 1},
	}

	for _, in := range inputs {
		for _, cfg := range configs {
			got := Select(scoredFrom(in...), cfg)
			assert.NotEmpty(t, got, "scores=%v cfg=%+v", in, cfg)
			assert.LessOrEqual(t, len(got), max(1, cfg.TopK))
		}
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	scored := scoredFrom(0.1, 0.9, 0.5)
	want := scoredFrom(0.1, 0.9, 0.5)

	Select(scored, entity.SelectionConfig{TopK: 2, Threshold: 0})

	assert.Equal(t, want, scored)
}
