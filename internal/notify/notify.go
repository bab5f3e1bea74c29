// Package notify announces completed runs to downstream consumers.
package notify

import "context"

// Publisher delivers a run-completion payload and returns a message ID.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
	Close() error
}

// RunCompleted is the payload published after each run.
type RunCompleted struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Total     int    `json:"total"`
	Up        int    `json:"up"`
	Down      int    `json:"down"`
	Unknown   int    `json:"unknown"`
	Errors    int    `json:"errors"`
	ReportURI string `json:"report_uri,omitempty"`
}
