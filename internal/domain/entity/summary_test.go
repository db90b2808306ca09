package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestSelectionConfig_Resolve(t *testing.T) {
	defaults := SelectionConfig{TopK: 3, Threshold: 0.5}

	tests := []struct {
		name      string
		topK      *int
		threshold *float64
		want      SelectionConfig
	}{
		{
			name: "no overrides keeps defaults",
			want: SelectionConfig{TopK: 3, Threshold: 0.5},
		},
		{
			name:      "both overrides applied",
			topK:      intPtr(5),
			threshold: floatPtr(0.8),
			want:      SelectionConfig{TopK: 5, Threshold: 0.8},
		},
		{
			name: "zero top_k is kept for selection to coerce",
			topK: intPtr(0),
			want: SelectionConfig{TopK: 0, Threshold: 0.5},
		},
		{
			name: "negative top_k is kept for selection to coerce",
			topK: intPtr(-2),
			want: SelectionConfig{TopK: -2, Threshold: 0.5},
		},
		{
			name:      "explicit zero threshold is honoured",
			threshold: floatPtr(0),
			want:      SelectionConfig{TopK: 3, Threshold: 0},
		},
		{
			name:      "out of range threshold accepted as-is",
			threshold: floatPtr(1.5),
			want:      SelectionConfig{TopK: 3, Threshold: 1.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaults.Resolve(tt.topK, tt.threshold))
		})
	}

	assert.Equal(t, SelectionConfig{TopK: 3, Threshold: 0.5}, defaults, "defaults must not be mutated")
}

func TestSummarizeRequest_Validate(t *testing.T) {
	assert.NoError(t, SummarizeRequest{}.Validate())
	assert.NoError(t, SummarizeRequest{Format: InputFormatText}.Validate())
	assert.NoError(t, SummarizeRequest{Format: InputFormatHTML}.Validate())

	err := SummarizeRequest{Format: "markdown"}.Validate()
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTexts(t *testing.T) {
	got := Texts([]Sentence{{Position: 0, Text: "A."}, {Position: 1, Text: "B."}})
	assert.Equal(t, []string{"A.", "B."}, got)
	assert.Empty(t, Texts(nil))
}
