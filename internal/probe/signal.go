// Package probe holds helpers shared by the probe engines.
package probe

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BuildSignal composes the classifier-facing text summary for a page visit.
// The body text is whitespace-collapsed and the whole signal is truncated to
// max bytes so a single heavy page cannot blow up a classification prompt.
func BuildSignal(statusCode int, finalURL, title, body string, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP %d %s", statusCode, finalURL)
	if t := strings.TrimSpace(title); t != "" {
		b.WriteString("\ntitle: ")
		b.WriteString(t)
	}
	if text := CollapseWhitespace(body); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}
	return Truncate(b.String(), max)
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate clips s to at most max bytes without splitting a UTF-8 sequence.
// Non-positive max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
