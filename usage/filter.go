package usage

import "strings"

// RegionFilter decides whether a byte offset in source text falls inside a
// comment or string literal. It is an injectable strategy: the default is
// an approximate heuristic, and a tokenizer-based implementation can
// replace it without API changes.
type RegionFilter interface {
	InCommentOrString(content string, offset int) bool
}

// HeuristicRegionFilter rejects offsets inside `//` and `/* */` comments
// and inside string-literal regions detected by quote-parity counting. The
// parity check is a known approximation, not a real lexer: an odd number of
// unescaped quotes on the line before the offset means the offset is taken
// to be inside a string.
type HeuristicRegionFilter struct{}

// NewHeuristicRegionFilter returns the default filter.
func NewHeuristicRegionFilter() *HeuristicRegionFilter {
	return &HeuristicRegionFilter{}
}

func (f *HeuristicRegionFilter) InCommentOrString(content string, offset int) bool {
	if offset < 0 || offset >= len(content) {
		return false
	}

	if inBlockComment(content, offset) {
		return true
	}

	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	prefix := content[lineStart:offset]

	if inLineComment(prefix) {
		return true
	}

	return oddQuoteParity(prefix)
}

// inBlockComment reports whether the last `/*` before offset is unclosed.
func inBlockComment(content string, offset int) bool {
	open := strings.LastIndex(content[:offset], "/*")
	if open == -1 {
		return false
	}
	close := strings.LastIndex(content[:offset], "*/")
	return close < open
}

// inLineComment reports whether a `//` outside any string appears in the
// text between the line start and the offset.
func inLineComment(prefix string) bool {
	for i := 0; i+1 < len(prefix); i++ {
		if prefix[i] == '/' && prefix[i+1] == '/' && !oddQuoteParity(prefix[:i]) {
			return true
		}
	}
	return false
}

// oddQuoteParity reports whether any quote character has been opened and
// not closed in the given text. Escaped quotes do not count.
func oddQuoteParity(text string) bool {
	counts := map[byte]int{'\'': 0, '"': 0, '`': 0}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if _, isQuote := counts[c]; !isQuote {
			continue
		}
		if i > 0 && text[i-1] == '\\' {
			continue
		}
		counts[c]++
	}

	return counts['\'']%2 == 1 || counts['"']%2 == 1 || counts['`']%2 == 1
}
