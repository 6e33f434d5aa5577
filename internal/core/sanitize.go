package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// scriptElementPattern removes whole script elements, payload included.
	scriptElementPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	// htmlTagPattern removes any remaining markup tags.
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeInput strips unsafe markup and control characters from free-text
// input, trims surrounding whitespace and truncates to maxLength runes
// (0 means no limit). Sanitization runs before any length validation, so
// input that collapses to nothing comes back as the empty string.
func SanitizeInput(raw string, maxLength int) string {
	s := scriptElementPattern.ReplaceAllString(raw, "")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if maxLength > 0 && utf8.RuneCountInString(s) > maxLength {
		s = strings.TrimSpace(string([]rune(s)[:maxLength]))
	}
	return s
}
