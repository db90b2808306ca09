package entity

// Sentence is a candidate extraction unit produced by segmentation.
// Position is the zero-based index in segmentation order and never changes
// once assigned.
type Sentence struct {
	Position int
	Text     string
}

// ScoredSentence pairs a sentence position with its salience score in [0, 1].
type ScoredSentence struct {
	Position int
	Score    float64
}

// Texts returns the sentence texts in position order.
func Texts(sentences []Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}
