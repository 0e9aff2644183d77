package parser

import (
	"regexp"
	"strings"
)

var (
	singleLineCommentPattern = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern      = regexp.MustCompile(`/\*[\s\S]*?\*/`)
)

// blankComments replaces comment text with spaces so that byte offsets and
// line numbers of the remaining code are preserved.
func blankComments(content string) string {
	blank := func(match string) string {
		var b strings.Builder
		for _, r := range match {
			if r == '\n' {
				b.WriteRune('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		return b.String()
	}

	content = blockCommentPattern.ReplaceAllStringFunc(content, blank)
	content = singleLineCommentPattern.ReplaceAllStringFunc(content, blank)

	return content
}

// isValidIdentifier reports whether s is a plausible JS identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`, s)
	return matched
}

// lineOfOffset returns the 1-based line number of a byte offset.
func lineOfOffset(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}
