package metrics

import (
	"time"
)

// Segmentation fallback kinds.
const (
	// FallbackWholeText is recorded when no fragment survived the primary
	// split and the trimmed input was used as the only sentence.
	FallbackWholeText = "whole_text"
	// FallbackSecondarySplit is recorded when a single long sentence was
	// re-split on secondary punctuation.
	FallbackSecondarySplit = "secondary_split"
)

// RecordSummary records the result of a summarization request.
// Status is "success" or "scorer_error".
func RecordSummary(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "scorer_error"
	}
	SummariesTotal.WithLabelValues(status).Inc()
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordSelection records the sentence counts of a completed summary.
//
// Parameters:
//   - segmented: number of candidate sentences
//   - selected: number of sentences kept
//   - fellBack: whether the threshold filter kept nothing and top-k was used
//
// Example:
//
//	result, err := svc.Summarize(ctx, req)
//	if err == nil {
//	    RecordSelection(len(result.Sentences), len(result.Selected), result.FellBack)
//	}
func RecordSelection(segmented, selected int, fellBack bool) {
	SentencesSegmented.Observe(float64(segmented))
	SentencesSelected.Observe(float64(selected))
	if fellBack {
		SelectionFallbacksTotal.Inc()
	}
}

// RecordSegmentationFallback records a degenerate-input recovery path.
// Kind should be FallbackWholeText or FallbackSecondarySplit.
func RecordSegmentationFallback(kind string) {
	SegmentationFallbacksTotal.WithLabelValues(kind).Inc()
}

// RecordScorerBatch records the time taken to score one batch.
func RecordScorerBatch(duration time.Duration) {
	ScorerBatchDuration.Observe(duration.Seconds())
}
