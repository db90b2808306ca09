package summarize

import (
	"maps"
	"slices"
	"strings"

	"extractive-summarizer/internal/domain/entity"
)

// Assemble joins the kept sentences with a single space in ascending
// position order. Positions index into sentences.
func Assemble(sentences []entity.Sentence, kept map[int]struct{}) string {
	positions := sortedPositions(kept)
	texts := make([]string, len(positions))
	for i, p := range positions {
		texts[i] = sentences[p].Text
	}
	return strings.Join(texts, " ")
}

func sortedPositions(kept map[int]struct{}) []int {
	return slices.Sorted(maps.Keys(kept))
}
