// Package summarize provides the HTTP handler for POST /summarize.
package summarize

// Request is the JSON body of POST /summarize.
// Absent or null top_k and threshold keep the configured defaults.
type Request struct {
	Text      string   `json:"text"`
	TopK      *int     `json:"top_k,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Format    string   `json:"format,omitempty"`
	Debug     bool     `json:"debug,omitempty"`
}

// Response is the JSON body of a successful summarization.
// The debug fields are only set when the request asked for them.
type Response struct {
	Summary   string    `json:"summary"`
	Sentences []string  `json:"sentences,omitempty"`
	Selected  []int     `json:"selected,omitempty"`
	Scores    []float64 `json:"scores,omitempty"`
}
