package scout

import (
	"context"
	"time"
)

// Probe visits a URL and reports what it saw. Implementations enforce their
// own navigation timeout, open one browser session or connection per call, and
// release it on every exit path. A returned error is a transport-level probe
// failure (navigation timeout, DNS failure, browser crash); ambiguous page
// content is not an error.
type Probe interface {
	Visit(ctx context.Context, url string) (Observation, error)
	Close()
}

// Classifier maps an Observation to a Verdict. A returned error is reserved
// for transport failures talking to the backing engine; output that cannot be
// mapped to a known status must yield StatusUnknown instead of an error.
type Classifier interface {
	Classify(ctx context.Context, obs Observation) (Verdict, error)
	Close() error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
