package entity

import "fmt"

// InputFormat identifies how the request text is encoded.
type InputFormat string

const (
	// InputFormatText is plain text. This is the default.
	InputFormatText InputFormat = "text"
	// InputFormatHTML is an HTML document or fragment whose visible text is summarized.
	InputFormatHTML InputFormat = "html"
)

// IsValid reports whether f is a supported input format. The empty value is
// accepted and treated as plain text.
func (f InputFormat) IsValid() bool {
	switch f {
	case "", InputFormatText, InputFormatHTML:
		return true
	default:
		return false
	}
}

// SelectionConfig holds the per-request selection parameters after request
// overrides have been layered over the static defaults.
type SelectionConfig struct {
	// TopK is the maximum number of sentences kept. Values below 1 are
	// treated as 1 during selection.
	TopK int
	// Threshold is the minimum score a sentence needs to survive the
	// threshold filter. It is not range checked.
	Threshold float64
}

// Resolve layers optional request overrides over the defaults.
// A nil field keeps the default. Supplied values are taken as-is, including
// zero or negative top_k (coerced to 1 at selection time) and thresholds
// outside [0, 1].
func (c SelectionConfig) Resolve(topK *int, threshold *float64) SelectionConfig {
	out := c
	if topK != nil {
		out.TopK = *topK
	}
	if threshold != nil {
		out.Threshold = *threshold
	}
	return out
}

// SummarizeRequest is a single summarization request.
type SummarizeRequest struct {
	Text      string
	TopK      *int
	Threshold *float64
	Format    InputFormat
}

// Validate checks the request fields that can be rejected. Text content is
// never rejected; empty text yields an empty summary.
func (r SummarizeRequest) Validate() error {
	if !r.Format.IsValid() {
		return &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("must be one of %q or %q", InputFormatText, InputFormatHTML),
		}
	}
	return nil
}

// SummarizeResult is the outcome of running the selection pipeline.
type SummarizeResult struct {
	// Summary is the selected sentences joined with single spaces in
	// original order.
	Summary string
	// Sentences are the segmented candidates.
	Sentences []Sentence
	// Scores holds one score per sentence, indexed by position.
	Scores []float64
	// Selected lists the kept positions in ascending order.
	Selected []int
	// Selection is the resolved configuration used for this request.
	Selection SelectionConfig
	// FellBack is true when no sentence met the threshold and the whole
	// top-k set was kept.
	FellBack bool
}
