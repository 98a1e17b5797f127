package utils

import "strings"

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut off.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// StripQuotes removes leading and trailing quote characters, as LLMs tend
// to wrap generated titles in them despite instructions not to.
func StripQuotes(s string) string {
	return strings.Trim(s, "\"'")
}
