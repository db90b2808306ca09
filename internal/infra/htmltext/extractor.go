// Package htmltext extracts readable text from HTML documents so that they
// can be summarized like plain text.
package htmltext

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// droppedSelector matches elements whose content is never prose.
const droppedSelector = "head, script, style, noscript, template, svg, iframe, object"

// blockSelector matches elements that start a new line of text. Each block
// becomes its own line, so a heading or list item is a sentence boundary
// even without terminal punctuation.
const blockSelector = "address, article, aside, blockquote, dd, div, dl, dt, " +
	"figcaption, figure, footer, form, h1, h2, h3, h4, h5, h6, header, hr, " +
	"li, main, nav, ol, p, pre, section, table, td, th, tr, ul"

// Extractor converts HTML to newline separated plain text.
// An Extractor is stateless and safe for concurrent use.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the visible text of document. Runs of whitespace
// inside a block collapse to a single space; blocks are separated by "\n".
// A fragment without any markup is returned with its whitespace normalized.
func (e *Extractor) ExtractText(ctx context.Context, document string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(droppedSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
		s.AppendHtml("\n")
	})

	return normalizeLines(doc.Text()), nil
}

// normalizeLines collapses whitespace within each line and drops blank lines.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}
