// Package scout defines the core types shared across the check pipeline.
package scout

import "time"

// Status is the final operational classification of a site.
type Status string

// Status values emitted in reports.
//
// StatusError means the pipeline could not produce an answer (probe or
// classifier failed irrecoverably); it is distinct from StatusDown, which is
// a positive classification of a broken site.
const (
	StatusUp      Status = "UP"
	StatusDown    Status = "DOWN"
	StatusUnknown Status = "UNKNOWN"
	StatusError   Status = "ERROR"
)

// SiteSpec identifies a single monitored site. Immutable; owned by the catalog.
type SiteSpec struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Observation is the raw signal produced by one probe attempt. It is ephemeral
// and never persisted beyond classification.
type Observation struct {
	// Reachable reports whether navigation completed at all. A page that
	// loaded with an HTTP error is still reachable; judging it is the
	// classifier's job.
	Reachable  bool
	StatusCode int
	FinalURL   string
	// Signal is the truncated visible-text summary handed to the classifier,
	// or transport error text for unreachable sites.
	Signal  string
	Latency time.Duration
}

// Verdict is the classifier's interpretation of an Observation.
type Verdict struct {
	Status Status
	Note   string
}

// Result is the per-site outcome of one run.
// Err is non-empty if and only if Status is StatusError.
type Result struct {
	Site   SiteSpec
	Status Status
	Err    string
}

// CategoryResult maps site name to Result. Keys are unique within a category.
type CategoryResult map[string]Result

// Report is the aggregate outcome of one full run. It is assembled once,
// after every category has completed, and never mutated afterwards.
type Report struct {
	RunID      string
	Timestamp  time.Time
	Categories map[string]CategoryResult
}
