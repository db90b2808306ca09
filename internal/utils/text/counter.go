// Package text provides utilities for text processing and analysis.
// It holds the character counting and whitespace rules shared by sentence
// segmentation and input extraction.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters such as Amharic, Arabic or emoji count as one each,
// which is how sentence length limits are measured.
//
// Examples:
//
//	CountRunes("hello")   // returns 5 (ASCII text)
//	CountRunes("ሰላም")     // returns 3 (Ge'ez script)
//	CountRunes("")        // returns 0 (empty string)
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
