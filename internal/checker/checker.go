// Package checker turns one catalog site into one final status Result.
package checker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sitescout/internal/progress"
	"sitescout/internal/scout"
)

// Config controls the retry ladder for a single check.
type Config struct {
	// RunID tags progress events with the owning run.
	RunID [16]byte
	// ProbeAttempts is the total number of browser visits to attempt.
	ProbeAttempts int
	// ClassifyAttempts is the total number of classification calls made
	// against one successful observation.
	ClassifyAttempts int
	// CheckTimeout bounds each individual probe attempt.
	CheckTimeout time.Duration
}

func (c *Config) fill() {
	if c.ProbeAttempts <= 0 {
		c.ProbeAttempts = 2
	}
	if c.ClassifyAttempts <= 0 {
		c.ClassifyAttempts = 2
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = 60 * time.Second
	}
}

// Checker executes checks. Safe for concurrent use as long as its probe and
// classifier are.
type Checker struct {
	probe      scout.Probe
	classifier scout.Classifier
	emitter    progress.Emitter
	clock      scout.Clock
	cfg        Config
	logger     *zap.Logger
}

// New creates a Checker.
func New(probe scout.Probe, classifier scout.Classifier, emitter progress.Emitter, clock scout.Clock, cfg Config, logger *zap.Logger) *Checker {
	cfg.fill()
	if emitter == nil {
		emitter = progress.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		probe:      probe,
		classifier: classifier,
		emitter:    emitter,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
	}
}

// Check visits the site and classifies what it saw. It always returns a
// Result: operational failures become StatusError with Err describing what
// went wrong, and ambiguity becomes StatusUnknown. Err is non-empty exactly
// when the status is ERROR.
func (c *Checker) Check(ctx context.Context, category string, site scout.SiteSpec) scout.Result {
	started := c.clock.Now()
	c.emitter.Emit(progress.Event{
		RunID:    c.cfg.RunID,
		TS:       started,
		Stage:    progress.StageCheckStart,
		Category: category,
		Site:     site.Name,
		URL:      site.URL,
	})

	result, attempts, note := c.check(ctx, site)

	done := c.clock.Now()
	c.emitter.Emit(progress.Event{
		RunID:    c.cfg.RunID,
		TS:       done,
		Stage:    progress.StageCheckDone,
		Category: category,
		Site:     site.Name,
		URL:      site.URL,
		Status:   result.Status,
		Attempts: attempts,
		Dur:      done.Sub(started),
		Note:     note,
	})
	return result
}

func (c *Checker) check(ctx context.Context, site scout.SiteSpec) (scout.Result, int, string) {
	obs, attempts, err := c.probeWithRetry(ctx, site)
	if err != nil {
		c.logger.Warn("probe exhausted",
			zap.String("site", site.Name),
			zap.Int("attempts", attempts),
			zap.Error(err))
		msg := fmt.Sprintf("probe failed after %d attempts: %v", attempts, err)
		return scout.Result{Site: site, Status: scout.StatusError, Err: msg}, attempts, msg
	}

	verdict, err := c.classifyWithRetry(ctx, obs)
	if err != nil {
		c.logger.Warn("classification exhausted",
			zap.String("site", site.Name),
			zap.Error(err))
		msg := fmt.Sprintf("classification failed: %v", err)
		return scout.Result{Site: site, Status: scout.StatusError, Err: msg}, attempts, msg
	}

	return scout.Result{Site: site, Status: verdict.Status}, attempts, verdict.Note
}

// probeWithRetry visits the URL up to cfg.ProbeAttempts times. Each attempt
// gets a fresh deadline; an already-canceled parent context stops the ladder
// early instead of burning attempts that cannot succeed.
func (c *Checker) probeWithRetry(ctx context.Context, site scout.SiteSpec) (scout.Observation, int, error) {
	var lastErr error
	attempts := 0
	for i := 0; i < c.cfg.ProbeAttempts; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.CheckTimeout)
		obs, err := c.probe.Visit(attemptCtx, site.URL)
		cancel()
		if err == nil {
			return obs, attempts, nil
		}
		lastErr = err
		c.logger.Debug("probe attempt failed",
			zap.String("site", site.Name),
			zap.Int("attempt", attempts),
			zap.Error(err))
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no probe attempts configured")
	}
	return scout.Observation{}, attempts, lastErr
}

// classifyWithRetry reuses the same observation across attempts; the page was
// already captured, only the classifier transport is being retried.
func (c *Checker) classifyWithRetry(ctx context.Context, obs scout.Observation) (scout.Verdict, error) {
	var lastErr error
	for i := 0; i < c.cfg.ClassifyAttempts; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		verdict, err := c.classifier.Classify(ctx, obs)
		if err == nil {
			return verdict, nil
		}
		lastErr = err
	}
	return scout.Verdict{}, lastErr
}
