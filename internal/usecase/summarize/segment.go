package summarize

import (
	"fmt"
	"regexp"
	"strings"

	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/observability/metrics"
	"extractive-summarizer/internal/utils/text"
)

// Segmentation defaults.
const (
	// DefaultLongSentenceRunes is the length above which a lone sentence is
	// re-split on secondary punctuation. Measured in characters.
	DefaultLongSentenceRunes = 200

	// DefaultTerminators end a sentence when followed by whitespace.
	DefaultTerminators = ".?!۔።"

	// DefaultSecondaryDelimiters split a lone long sentence when followed by
	// whitespace: Arabic semicolon, semicolon, colon, comma, Arabic comma,
	// middle dot, katakana middle dot, bullets, hyphen, en dash, em dash.
	DefaultSecondaryDelimiters = "؛;:,،·・•‣⁃∙-–—"
)

// SegmenterConfig controls sentence segmentation.
type SegmenterConfig struct {
	// LongSentenceRunes triggers the secondary split when the primary split
	// yields exactly one sentence longer than this. Default: 200
	LongSentenceRunes int

	// Terminators is the set of sentence-ending characters. Default: DefaultTerminators
	Terminators string

	// SecondaryDelimiters is the fallback delimiter set. Default: DefaultSecondaryDelimiters
	SecondaryDelimiters string
}

// DefaultSegmenterConfig returns the standard segmentation settings.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		LongSentenceRunes:   DefaultLongSentenceRunes,
		Terminators:         DefaultTerminators,
		SecondaryDelimiters: DefaultSecondaryDelimiters,
	}
}

// Segmenter splits raw text into candidate sentences.
// A Segmenter is immutable and safe for concurrent use.
type Segmenter struct {
	longRunes int
	// primary matches a newline run, or a terminator (group 1) followed by
	// whitespace. The terminator stays with the preceding sentence.
	primary   *regexp.Regexp
	secondary *regexp.Regexp
}

// NewSegmenter builds a Segmenter. Zero-valued fields take their defaults.
func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	def := DefaultSegmenterConfig()
	if cfg.LongSentenceRunes <= 0 {
		cfg.LongSentenceRunes = def.LongSentenceRunes
	}
	if cfg.Terminators == "" {
		cfg.Terminators = def.Terminators
	}
	if cfg.SecondaryDelimiters == "" {
		cfg.SecondaryDelimiters = def.SecondaryDelimiters
	}

	primary, err := regexp.Compile(`(?:\r?\n|\r)+|(` + charClass(cfg.Terminators) + `)` + text.SpaceClass + `+`)
	if err != nil {
		return nil, fmt.Errorf("compile primary split pattern: %w", err)
	}
	secondary, err := regexp.Compile(charClass(cfg.SecondaryDelimiters) + text.SpaceClass + `+`)
	if err != nil {
		return nil, fmt.Errorf("compile secondary split pattern: %w", err)
	}

	return &Segmenter{
		longRunes: cfg.LongSentenceRunes,
		primary:   primary,
		secondary: secondary,
	}, nil
}

// MustNewSegmenter is like NewSegmenter but panics on error.
func MustNewSegmenter(cfg SegmenterConfig) *Segmenter {
	s, err := NewSegmenter(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Segment splits text into an ordered, non-empty list of sentences with
// positions 0..N-1. Empty or whitespace-only input yields a single sentence
// with empty text.
func (s *Segmenter) Segment(text string) []entity.Sentence {
	sentences, _ := s.segment(text)
	return sentences
}

// segment also reports which fallback path was taken, if any.
func (s *Segmenter) segment(input string) ([]entity.Sentence, string) {
	var fallback string

	parts := s.splitPrimary(input)
	if len(parts) == 0 {
		parts = []string{text.TrimSpace(input)}
		fallback = metrics.FallbackWholeText
	}

	if len(parts) == 1 && text.CountRunes(parts[0]) > s.longRunes {
		if alt := nonEmpty(s.secondary.Split(parts[0], -1)); len(alt) > 0 {
			if len(alt) > 1 || alt[0] != parts[0] {
				fallback = metrics.FallbackSecondarySplit
			}
			parts = alt
		}
	}

	sentences := make([]entity.Sentence, len(parts))
	for i, p := range parts {
		sentences[i] = entity.Sentence{Position: i, Text: p}
	}
	return sentences, fallback
}

// splitPrimary cuts input at newline runs and after terminators followed by
// whitespace, returning trimmed non-empty fragments.
func (s *Segmenter) splitPrimary(input string) []string {
	var fragments []string
	start := 0
	for _, m := range s.primary.FindAllStringSubmatchIndex(input, -1) {
		cut := m[0]
		if m[2] >= 0 {
			cut = m[3]
		}
		fragments = append(fragments, input[start:cut])
		start = m[1]
	}
	fragments = append(fragments, input[start:])
	return nonEmpty(fragments)
}

// nonEmpty trims each fragment and drops the empty ones.
func nonEmpty(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if t := text.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// charClass renders a set of characters as a regexp character class with
// every member escaped.
func charClass(set string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range set {
		fmt.Fprintf(&b, `\x{%x}`, r)
	}
	b.WriteByte(']')
	return b.String()
}
