// Package runner orchestrates a full one-shot status run over the catalog.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitescout/internal/catalog"
	"sitescout/internal/checker"
	"sitescout/internal/progress"
	"sitescout/internal/scheduler"
	"sitescout/internal/scout"
)

// Config controls run-level concurrency and the per-check retry ladder.
type Config struct {
	// TabLimit caps concurrent checks within one category.
	TabLimit int
	// CategoryParallelism caps how many categories run at once. The default
	// of 1 checks categories sequentially, which keeps a single browser's
	// tab pressure predictable.
	CategoryParallelism int
	// ProbeAttempts, ClassifyAttempts and CheckTimeout are handed to the
	// per-site checker.
	ProbeAttempts    int
	ClassifyAttempts int
	CheckTimeout     time.Duration
}

func (c *Config) fill() {
	if c.TabLimit <= 0 {
		c.TabLimit = 5
	}
	if c.CategoryParallelism <= 0 {
		c.CategoryParallelism = 1
	}
}

// Runner executes runs. One Runner can execute any number of runs; each run
// gets its own ID and its own checker.
type Runner struct {
	probe      scout.Probe
	classifier scout.Classifier
	emitter    progress.Emitter
	clock      scout.Clock
	ids        scout.IDGenerator
	cfg        Config
	logger     *zap.Logger
}

// New creates a Runner.
func New(probe scout.Probe, classifier scout.Classifier, emitter progress.Emitter, clock scout.Clock, ids scout.IDGenerator, cfg Config, logger *zap.Logger) *Runner {
	cfg.fill()
	if emitter == nil {
		emitter = progress.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		probe:      probe,
		classifier: classifier,
		emitter:    emitter,
		clock:      clock,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run checks every site in the catalog and assembles the report. The report
// timestamp is captured before any check is dispatched so it reflects when
// monitoring began. The returned report is complete even when ctx is canceled
// mid-run (unfinished sites appear as ERROR); in that case the context error
// is also returned so callers can distinguish a clean run from a cut-short
// one.
func (r *Runner) Run(ctx context.Context, cat *catalog.Catalog) (scout.Report, error) {
	if cat == nil || cat.Len() == 0 {
		return scout.Report{}, fmt.Errorf("catalog is empty")
	}

	runID, err := r.ids.NewID()
	if err != nil {
		return scout.Report{}, fmt.Errorf("generate run id: %w", err)
	}
	binID, err := parseRunID(runID)
	if err != nil {
		return scout.Report{}, fmt.Errorf("run id %q: %w", runID, err)
	}

	started := r.clock.Now()
	r.emitter.Emit(progress.Event{RunID: binID, TS: started, Stage: progress.StageRunStart})
	r.logger.Info("run starting",
		zap.String("run_id", runID),
		zap.Int("categories", cat.Len()),
		zap.Int("sites", cat.TotalSites()))

	chk := checker.New(r.probe, r.classifier, r.emitter, r.clock, checker.Config{
		RunID:            binID,
		ProbeAttempts:    r.cfg.ProbeAttempts,
		ClassifyAttempts: r.cfg.ClassifyAttempts,
		CheckTimeout:     r.cfg.CheckTimeout,
	}, r.logger)

	var mu sync.Mutex
	categories := make(map[string]scout.CategoryResult, cat.Len())

	// The group context is deliberately not used to cancel checks: category
	// workers never return errors, so the only cancellation source is the
	// caller's ctx, and every category must still record its sites.
	grp := new(errgroup.Group)
	grp.SetLimit(r.cfg.CategoryParallelism)
	for _, category := range cat.Categories() {
		grp.Go(func() error {
			r.logger.Info("checking category",
				zap.String("run_id", runID),
				zap.String("category", category.Name),
				zap.Int("sites", len(category.Sites)))
			res := scheduler.RunCategory(ctx, chk, category.Name, category.Sites, r.cfg.TabLimit)
			mu.Lock()
			categories[category.Name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()

	done := r.clock.Now()
	report := scout.Report{
		RunID:      runID,
		Timestamp:  started,
		Categories: categories,
	}

	if err := ctx.Err(); err != nil {
		r.emitter.Emit(progress.Event{
			RunID: binID,
			TS:    done,
			Stage: progress.StageRunError,
			Dur:   done.Sub(started),
			Note:  err.Error(),
		})
		r.logger.Warn("run cut short", zap.String("run_id", runID), zap.Error(err))
		return report, fmt.Errorf("run interrupted: %w", err)
	}

	r.emitter.Emit(progress.Event{
		RunID: binID,
		TS:    done,
		Stage: progress.StageRunDone,
		Dur:   done.Sub(started),
	})
	r.logger.Info("run complete",
		zap.String("run_id", runID),
		zap.Duration("duration", done.Sub(started)))
	return report, nil
}

func parseRunID(id string) ([16]byte, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return [16]byte{}, err
	}
	return progress.UUIDToBytes(parsed), nil
}
