// Package archive stores a copy of each report outside the working directory.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Provider persists an encoded report and returns a location URI.
type Provider interface {
	Put(ctx context.Context, objectName string, data []byte) (string, error)
	Close() error
}

// ObjectName derives a stable archive key from the run timestamp and ID, so
// archived reports sort chronologically in object listings. Providers prepend
// their own configured prefix.
func ObjectName(ts time.Time, runID string) string {
	return fmt.Sprintf("%s/%s.json", ts.UTC().Format("2006/01/02"), runID)
}

// NoOp discards reports; used when archiving is disabled.
type NoOp struct{}

// Put implements Provider.
func (NoOp) Put(context.Context, string, []byte) (string, error) {
	return "", nil
}

// Close implements Provider.
func (NoOp) Close() error {
	return nil
}
