package checker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout/internal/progress"
	"sitescout/internal/scout"
)

type fakeProbe struct {
	mu     sync.Mutex
	visits int
	// script returns the outcome for the nth call (1-based).
	script func(call int) (scout.Observation, error)
}

func (p *fakeProbe) Visit(_ context.Context, _ string) (scout.Observation, error) {
	p.mu.Lock()
	p.visits++
	call := p.visits
	p.mu.Unlock()
	return p.script(call)
}

func (p *fakeProbe) Close() {}

func (p *fakeProbe) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visits
}

type fakeClassifier struct {
	mu    sync.Mutex
	calls int
	obs   []scout.Observation
	// script returns the outcome for the nth call (1-based).
	script func(call int) (scout.Verdict, error)
}

func (c *fakeClassifier) Classify(_ context.Context, obs scout.Observation) (scout.Verdict, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.obs = append(c.obs, obs)
	c.mu.Unlock()
	return c.script(call)
}

func (c *fakeClassifier) Close() error { return nil }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type captureEmitter struct {
	mu     sync.Mutex
	events []progress.Event
}

func (e *captureEmitter) Emit(evt progress.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *captureEmitter) all() []progress.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]progress.Event, len(e.events))
	copy(out, e.events)
	return out
}

var testSite = scout.SiteSpec{Name: "Example", URL: "https://example.com"}

func newChecker(p scout.Probe, c scout.Classifier, emitter progress.Emitter) *Checker {
	return New(p, c, emitter, &fakeClock{now: time.Unix(1700000000, 0)}, Config{
		RunID:            [16]byte{1},
		ProbeAttempts:    2,
		ClassifyAttempts: 2,
		CheckTimeout:     time.Second,
	}, nil)
}

func okObservation() scout.Observation {
	return scout.Observation{Reachable: true, StatusCode: 200, Signal: "HTTP 200 page text"}
}

func TestCheckHappyPath(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return okObservation(), nil
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		return scout.Verdict{Status: scout.StatusUp}, nil
	}}
	emitter := &captureEmitter{}

	res := newChecker(probe, classifier, emitter).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusUp, res.Status)
	assert.Empty(t, res.Err)
	assert.Equal(t, 1, probe.calls())

	events := emitter.all()
	require.Len(t, events, 2)
	assert.Equal(t, progress.StageCheckStart, events[0].Stage)
	assert.Equal(t, progress.StageCheckDone, events[1].Stage)
	assert.Equal(t, scout.StatusUp, events[1].Status)
	assert.Equal(t, 1, events[1].Attempts)
}

func TestCheckRetriesProbeOnce(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(call int) (scout.Observation, error) {
		if call == 1 {
			return scout.Observation{}, errors.New("net::ERR_CONNECTION_RESET")
		}
		return okObservation(), nil
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		return scout.Verdict{Status: scout.StatusUp}, nil
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusUp, res.Status)
	assert.Equal(t, 2, probe.calls())
}

func TestCheckProbeExhaustionIsError(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return scout.Observation{}, errors.New("navigation timed out")
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		t.Error("classifier must not run without an observation")
		return scout.Verdict{}, nil
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusError, res.Status)
	assert.Contains(t, res.Err, "probe failed after 2 attempts")
	assert.Contains(t, res.Err, "navigation timed out")
	assert.Equal(t, 2, probe.calls())
}

func TestCheckClassifyRetryReusesObservation(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return okObservation(), nil
	}}
	classifier := &fakeClassifier{script: func(call int) (scout.Verdict, error) {
		if call == 1 {
			return scout.Verdict{}, errors.New("rpc unavailable")
		}
		return scout.Verdict{Status: scout.StatusDown, Note: "outage banner"}, nil
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusDown, res.Status)
	assert.Empty(t, res.Err)
	// The retry must not trigger a fresh visit.
	assert.Equal(t, 1, probe.calls())
	require.Len(t, classifier.obs, 2)
	assert.Equal(t, classifier.obs[0], classifier.obs[1])
}

func TestCheckClassifyExhaustionIsError(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return okObservation(), nil
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		return scout.Verdict{}, errors.New("rpc unavailable")
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusError, res.Status)
	assert.Contains(t, res.Err, "classification failed")
	assert.Equal(t, 2, classifier.calls)
}

func TestCheckAmbiguousVerdictIsUnknownNotError(t *testing.T) {
	t.Parallel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return okObservation(), nil
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		return scout.Verdict{Status: scout.StatusUnknown, Note: "cannot tell"}, nil
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(context.Background(), "News", testSite)

	assert.Equal(t, scout.StatusUnknown, res.Status)
	assert.Empty(t, res.Err)
	assert.Equal(t, 1, classifier.calls)
}

func TestCheckCanceledContextStopsRetries(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := &fakeProbe{script: func(int) (scout.Observation, error) {
		return scout.Observation{}, errors.New("should not be visited")
	}}
	classifier := &fakeClassifier{script: func(int) (scout.Verdict, error) {
		return scout.Verdict{}, nil
	}}

	res := newChecker(probe, classifier, progress.Discard{}).Check(ctx, "News", testSite)

	assert.Equal(t, scout.StatusError, res.Status)
	assert.Equal(t, 0, probe.calls())
	assert.Equal(t, 0, classifier.calls)
}
