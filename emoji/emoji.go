package emoji

import (
	"regexp"
	"strings"

	"github.com/kyokomi/emoji/v2"
)

var reShortcode = regexp.MustCompile(`:[a-zA-Z0-9_+\-]+:`)

var codeMap = emoji.CodeMap()

// Expand replaces known shortcodes like ":package:" with their emoji.
// Unknown shortcodes are left untouched.
func Expand(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}

	return reShortcode.ReplaceAllStringFunc(s, func(code string) string {
		if e, ok := codeMap[strings.ToLower(code)]; ok {
			return e
		}
		return code
	})
}
