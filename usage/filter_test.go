package usage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterLineComment(t *testing.T) {
	f := NewHeuristicRegionFilter()
	content := "const a = 1\n// formatDateNanos(x)\nconst b = 2\n"
	offset := strings.Index(content, "formatDateNanos")
	require.Positive(t, offset)

	assert.True(t, f.InCommentOrString(content, offset))
}

func TestFilterBlockComment(t *testing.T) {
	f := NewHeuristicRegionFilter()
	content := "/*\n  formatDateNanos(x)\n*/\nformatDateNanos(y)\n"

	inside := strings.Index(content, "formatDateNanos")
	after := strings.LastIndex(content, "formatDateNanos")
	require.NotEqual(t, inside, after)

	assert.True(t, f.InCommentOrString(content, inside))
	assert.False(t, f.InCommentOrString(content, after))
}

func TestFilterStringLiteral(t *testing.T) {
	f := NewHeuristicRegionFilter()

	cases := []string{
		`const s = "call formatDateNanos(x) later"`,
		`const s = 'formatDateNanos(x)'`,
		"const s = `formatDateNanos(x)`",
	}
	for _, content := range cases {
		offset := strings.Index(content, "formatDateNanos")
		assert.True(t, f.InCommentOrString(content, offset), "content %q", content)
	}
}

func TestFilterEscapedQuote(t *testing.T) {
	f := NewHeuristicRegionFilter()

	// The escaped quote does not open a string region.
	content := `const s = "a\"b"; formatDateNanos(x)`
	offset := strings.Index(content, "formatDateNanos")

	assert.False(t, f.InCommentOrString(content, offset))
}

func TestFilterSlashInString(t *testing.T) {
	f := NewHeuristicRegionFilter()

	// "//" inside a string literal is not a comment marker.
	content := `const url = "https://example.com"; formatDateNanos(x)`
	offset := strings.Index(content, "formatDateNanos")

	assert.False(t, f.InCommentOrString(content, offset))
}

func TestFilterPlainCode(t *testing.T) {
	f := NewHeuristicRegionFilter()
	content := "const v = formatDateNanos(row.time)\n"
	offset := strings.Index(content, "formatDateNanos")

	assert.False(t, f.InCommentOrString(content, offset))
}

func TestFilterOutOfRange(t *testing.T) {
	f := NewHeuristicRegionFilter()
	assert.False(t, f.InCommentOrString("abc", -1))
	assert.False(t, f.InCommentOrString("abc", 3))
}
