package gemini

import (
	"encoding/json"
	"strings"

	"sitescout/internal/scout"
)

const noteMaxBytes = 512

// ParseVerdict maps free-form model output onto the closed verdict set.
// It tries a strict JSON parse first, then a token scan, and falls back to
// UNKNOWN with the raw text as note. Parsing failure is ambiguity, never an
// error.
func ParseVerdict(text string) scout.Verdict {
	clean := stripCodeFence(text)

	var payload struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err == nil {
		if status, ok := mapStatus(payload.Status); ok {
			return scout.Verdict{Status: status, Note: payload.Reason}
		}
	}

	for _, token := range strings.FieldsFunc(strings.ToUpper(clean), isTokenBoundary) {
		if status, ok := mapStatus(token); ok {
			return scout.Verdict{Status: status, Note: clampNote(clean)}
		}
	}

	return scout.Verdict{Status: scout.StatusUnknown, Note: clampNote(clean)}
}

func mapStatus(s string) (scout.Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return scout.StatusUp, true
	case "DOWN":
		return scout.StatusDown, true
	case "UNKNOWN":
		return scout.StatusUnknown, true
	default:
		return "", false
	}
}

func isTokenBoundary(r rune) bool {
	return !('A' <= r && r <= 'Z')
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func clampNote(s string) string {
	if len(s) <= noteMaxBytes {
		return s
	}
	return s[:noteMaxBytes]
}
