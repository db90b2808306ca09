package text

import (
	"strings"
	"unicode"
)

// SpaceClass is a regular expression character class for the Unicode
// White_Space property, the separators sentence splitting consumes. It is
// narrower than IsSpace: U+001C..U+001F never split a sentence.
const SpaceClass = `[\s\v\p{Z}\x{85}]`

// IsSpace reports whether r is trimmed from sentence edges. In addition to
// unicode.IsSpace it treats the ASCII information separators U+001C..U+001F
// as whitespace.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// TrimSpace returns s with leading and trailing whitespace removed, as
// defined by IsSpace.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}
