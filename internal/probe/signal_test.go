package probe

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildSignal(t *testing.T) {
	t.Parallel()

	got := BuildSignal(200, "https://example.com/", " Example Title ", "line one\n\n\t line   two", 0)
	assert.Equal(t, "HTTP 200 https://example.com/\ntitle: Example Title\nline one line two", got)
}

func TestBuildSignalOmitsEmptyParts(t *testing.T) {
	t.Parallel()

	got := BuildSignal(503, "https://example.com/", "", "   ", 0)
	assert.Equal(t, "HTTP 503 https://example.com/", got)
}

func TestBuildSignalTruncates(t *testing.T) {
	t.Parallel()

	got := BuildSignal(200, "https://example.com/", "t", strings.Repeat("word ", 1000), 100)
	assert.LessOrEqual(t, len(got), 100)
	assert.True(t, strings.HasPrefix(got, "HTTP 200"))
}

func TestTruncateKeepsUTF8Intact(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 50)
	for max := 1; max < len(s); max++ {
		got := Truncate(s, max)
		assert.LessOrEqual(t, len(got), max)
		assert.True(t, utf8.ValidString(got), "max=%d", max)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", CollapseWhitespace("  a\n\tb   c  "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
