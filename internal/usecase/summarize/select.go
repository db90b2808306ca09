package summarize

import (
	"cmp"
	"slices"

	"extractive-summarizer/internal/domain/entity"
)

// Select chooses which sentence positions to keep.
//
// Sentences are ranked by score, highest first, with ties kept in position
// order. The ranking is cut to max(1, cfg.TopK) entries and those scoring at
// least cfg.Threshold are kept. If none qualify, the whole cut is kept, so
// the result is non-empty whenever scored is non-empty.
func Select(scored []entity.ScoredSentence, cfg entity.SelectionConfig) map[int]struct{} {
	kept, _ := selectTop(scored, cfg)
	return kept
}

// selectTop also reports whether the threshold fallback was used.
func selectTop(scored []entity.ScoredSentence, cfg entity.SelectionConfig) (map[int]struct{}, bool) {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b entity.ScoredSentence) int {
		return cmp.Compare(b.Score, a.Score)
	})
	ranked = ranked[:min(max(1, cfg.TopK), len(ranked))]

	kept := make(map[int]struct{}, len(ranked))
	for _, s := range ranked {
		if s.Score >= cfg.Threshold {
			kept[s.Position] = struct{}{}
		}
	}
	if len(kept) > 0 || len(ranked) == 0 {
		return kept, false
	}

	for _, s := range ranked {
		kept[s.Position] = struct{}{}
	}
	return kept, true
}
