package util

import (
	"strings"
	"unicode/utf8"
)

// Truncate shortens a string to at most n bytes, marking the cut with "...".
// The cut never splits a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return SafeSlice(s, n)
	}
	return SafeSlice(s, n-3) + "..."
}

// SafeSlice cuts s to at most maxLen bytes at a rune boundary.
func SafeSlice(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for i := maxLen; i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return s[:i]
		}
	}
	return ""
}

// SanitizeFilename makes a string safe for use as a file name.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
		" ", "_",
		".", "_",
	)
	safe := replacer.Replace(strings.TrimSpace(name))
	return SafeSlice(safe, 50)
}
