package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxSanitizedLength is the ceiling Sanitize truncates every string to.
const MaxSanitizedLength = 1000

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	forbiddenReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")
)

// Sanitize strips markup and quote characters, trims surrounding whitespace
// and truncates to MaxSanitizedLength characters. Sanitize(Sanitize(s)) ==
// Sanitize(s).
func Sanitize(text string) string {
	cleaned := markupPattern.ReplaceAllString(text, "")
	cleaned = forbiddenReplacer.Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	return strings.TrimSpace(Truncate(cleaned, MaxSanitizedLength))
}

// Truncate cuts s to at most max characters.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Length counts characters, not bytes.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
