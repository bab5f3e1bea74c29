// Package heuristic provides an offline rule-based classifier for runs
// without a model endpoint configured.
package heuristic

import (
	"context"
	"fmt"
	"strings"

	"sitescout/internal/scout"
)

// Classifier scores an observation with a handful of rules.
type Classifier struct {
	// MinSignalBytes is the body-signal length below which a page is
	// considered too thin to call UP.
	MinSignalBytes int
}

// New creates a Classifier.
func New(minSignalBytes int) *Classifier {
	if minSignalBytes <= 0 {
		minSignalBytes = 80
	}
	return &Classifier{MinSignalBytes: minSignalBytes}
}

var outageMarkers = []string{
	"service unavailable",
	"temporarily unavailable",
	"under maintenance",
	"be right back",
	"502 bad gateway",
	"504 gateway",
	"origin is unreachable",
	"site can't be reached",
}

// Classify never fails: with no external engine there is no transport to
// break. Ambiguous observations map to UNKNOWN.
func (c *Classifier) Classify(_ context.Context, obs scout.Observation) (scout.Verdict, error) {
	if !obs.Reachable {
		return scout.Verdict{Status: scout.StatusDown, Note: obs.Signal}, nil
	}
	if obs.StatusCode >= 400 {
		return scout.Verdict{Status: scout.StatusDown, Note: fmt.Sprintf("HTTP %d", obs.StatusCode)}, nil
	}
	lower := strings.ToLower(obs.Signal)
	for _, marker := range outageMarkers {
		if strings.Contains(lower, marker) {
			return scout.Verdict{Status: scout.StatusDown, Note: "page shows outage text: " + marker}, nil
		}
	}
	if len(obs.Signal) < c.MinSignalBytes {
		return scout.Verdict{Status: scout.StatusUnknown, Note: "page signal too thin to judge"}, nil
	}
	return scout.Verdict{Status: scout.StatusUp}, nil
}

// Close implements scout.Classifier; nothing to release.
func (c *Classifier) Close() error {
	return nil
}
