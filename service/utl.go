package service

import "unicode/utf8"

// preview cuts s to at most n runes, marking the cut with an ellipsis.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
