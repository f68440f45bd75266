package textutil

import (
	"regexp"
	"strings"
)

var (
	reMultiSpace          = regexp.MustCompile(`([ \t])+`)
	reMoreThan2Linebreaks = regexp.MustCompile(`(\n){2,}`)
)

// SmartTrim collapses repeated spaces within each line,
// keeps at most one blank line between paragraphs
// and trims the result.
func SmartTrim(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	oldLines := strings.Split(s, "\n")
	newLines := make([]string, 0, len(oldLines))
	for _, line := range oldLines {
		line = strings.TrimSpace(reMultiSpace.ReplaceAllString(line, "$1"))
		newLines = append(newLines, line)
	}
	s = strings.Join(newLines, "\n")
	s = reMoreThan2Linebreaks.ReplaceAllString(s, "$1$1")
	return strings.TrimSpace(s)
}

// IsBlank reports whether s has no printable content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
