package textutil

import "strings"

// EscapeNewlines replaces real line breaks with the two-character sequence
// `\n` used by LanguageData files. CRLF and lone CR are folded first.
func EscapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}

// UnescapeNewlines is the inverse of EscapeNewlines.
func UnescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// SingleLine collapses line breaks so a value fits on one log or table line.
func SingleLine(s string) string {
	return strings.ReplaceAll(EscapeNewlines(s), "\t", `\t`)
}
