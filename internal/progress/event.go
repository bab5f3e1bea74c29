// Package progress defines the event stream emitted while a run executes.
// It is a side channel for observability only; it never alters the report.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitescout/internal/scout"
)

// Stage denotes the milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart   Stage = "RUN_START"
	StageRunDone    Stage = "RUN_DONE"
	StageRunError   Stage = "RUN_ERROR"
	StageCheckStart Stage = "CHECK_START"
	StageCheckDone  Stage = "CHECK_DONE"
)

// Event captures a single milestone of run progress.
type Event struct {
	// RunID uniquely identifies the run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or check milestone occurred.
	Stage Stage
	// Category scopes check events to their catalog category.
	Category string
	// Site is the catalog site name for check events.
	Site string
	// URL is the probed URL for check events.
	URL string
	// Status carries the final status for CHECK_DONE events.
	Status scout.Status
	// Attempts counts probe attempts consumed by a completed check.
	Attempts int
	// Dur captures execution latency for checks and run completions.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StageCheckStart:
		if e.Site == "" || e.Category == "" {
			return errors.New("check start requires category and site")
		}
	case StageCheckDone:
		if e.Site == "" || e.Category == "" {
			return errors.New("check done requires category and site")
		}
		if e.Status == "" {
			return errors.New("check done requires a status")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID for repositories.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
