// Command sitescout runs one full status check over the website catalog,
// writes the JSON report, and prints a console summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"sitescout/internal/api"
	"sitescout/internal/archive"
	"sitescout/internal/catalog"
	"sitescout/internal/classify/gemini"
	"sitescout/internal/classify/heuristic"
	"sitescout/internal/clock/system"
	"sitescout/internal/config"
	"sitescout/internal/history"
	"sitescout/internal/id/uuid"
	"sitescout/internal/logging"
	"sitescout/internal/notify"
	notifypubsub "sitescout/internal/notify/pubsub"
	"sitescout/internal/probe/headless"
	"sitescout/internal/probe/web"
	"sitescout/internal/progress"
	"sitescout/internal/progress/sinks"
	"sitescout/internal/report"
	"sitescout/internal/runner"
	"sitescout/internal/scout"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	catalogPath := flag.String("catalog", "", "path to catalog JSON (defaults to the built-in catalog)")
	outPath := flag.String("out", "", "report output path (overrides report.path)")
	flag.Parse()

	if err := run(*configPath, *catalogPath, *outPath); err != nil {
		fmt.Fprintln(os.Stderr, "sitescout:", err)
		os.Exit(1)
	}
}

func run(configPath, catalogPath, outPath string) error {
	// Optional; local development keys live in .env.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outPath != "" {
		cfg.Report.Path = outPath
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	prb, err := buildProbe(cfg)
	if err != nil {
		return fmt.Errorf("init probe: %w", err)
	}
	defer prb.Close()

	cls, err := buildClassifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init classifier: %w", err)
	}
	defer cls.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promSink, err := sinks.NewPrometheus(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	hub := progress.NewHub(progress.HubConfig{}, logger, sinks.NewLog(logger), promSink)

	var srv *api.Server
	var httpSrv *http.Server
	if cfg.Server.Enabled {
		srv = api.NewServer(registry, logger.Named("api"))
		srv.SetReady(true)
		httpSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", zap.Error(err))
			}
		}()
	}

	r := runner.New(prb, cls, hub, system.New(), uuid.New(), runner.Config{
		TabLimit:            cfg.Run.TabLimit,
		CategoryParallelism: cfg.Run.CategoryParallelism,
		ProbeAttempts:       cfg.Run.ProbeAttempts,
		ClassifyAttempts:    cfg.Run.ClassifyAttempts,
		CheckTimeout:        cfg.CheckTimeout(),
	}, logger)

	rep, runErr := r.Run(ctx, cat)
	if runErr != nil && rep.Categories == nil {
		// Nothing was checked; there is no report to land.
		return runErr
	}

	data, err := report.Encode(rep, cat, cfg.Report.Pretty)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := report.Write(cfg.Report.Path, data); err != nil {
		return err
	}
	logger.Info("report written", zap.String("path", cfg.Report.Path))
	if srv != nil {
		srv.SetLatest(data)
	}
	report.Summary(os.Stdout, rep, cat)

	// Archive, history and notification are best effort: their failure is
	// logged but never discards a finished report.
	finishRun(logger, cfg, rep, cat, data)

	if err := hub.Close(context.Background()); err != nil {
		logger.Warn("progress hub close failed", zap.Error(err))
	}
	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown failed", zap.Error(err))
		}
	}
	return runErr
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func buildProbe(cfg config.Config) (scout.Probe, error) {
	switch cfg.Probe.Engine {
	case "web":
		return web.New(web.Config{
			UserAgent:      cfg.Probe.UserAgent,
			Timeout:        cfg.NavTimeout(),
			MaxParallel:    cfg.Probe.MaxParallel,
			SignalMaxBytes: cfg.Probe.SignalMaxBytes,
		}), nil
	default:
		return headless.New(headless.Config{
			MaxParallel:       cfg.Probe.MaxParallel,
			UserAgent:         cfg.Probe.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
			SignalMaxBytes:    cfg.Probe.SignalMaxBytes,
		})
	}
}

func buildClassifier(ctx context.Context, cfg config.Config) (scout.Classifier, error) {
	switch cfg.Classifier.Provider {
	case "gemini":
		return gemini.New(ctx, gemini.Config{
			APIKey: cfg.Classifier.APIKey,
			Model:  cfg.Classifier.Model,
		})
	default:
		return heuristic.New(cfg.Classifier.MinSignalBytes), nil
	}
}

// finishRun runs the post-report side effects with a fresh context so a
// SIGINT that cut the run short does not also cancel landing its artifacts.
func finishRun(logger *zap.Logger, cfg config.Config, rep scout.Report, cat *catalog.Catalog, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts := report.Tally(rep)
	reportURI := archiveReport(ctx, logger, cfg, rep, data)

	if cfg.DB.DSN != "" {
		store, err := history.New(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Warn("history store unavailable", zap.Error(err))
		} else {
			if err := store.SaveRun(ctx, rep, cat, counts); err != nil {
				logger.Warn("history save failed", zap.Error(err))
			}
			store.Close()
		}
	}

	if cfg.PubSub.ProjectID != "" && cfg.PubSub.TopicName != "" {
		pub, err := notifypubsub.New(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicName)
		if err != nil {
			logger.Warn("notifier unavailable", zap.Error(err))
			return
		}
		defer pub.Close()
		id, err := pub.Publish(ctx, notify.RunCompleted{
			RunID:     rep.RunID,
			Timestamp: rep.Timestamp.Format(report.TimestampLayout),
			Total:     counts.Total,
			Up:        counts.Up,
			Down:      counts.Down,
			Unknown:   counts.Unknown,
			Errors:    counts.Error,
			ReportURI: reportURI,
		})
		if err != nil {
			logger.Warn("notification failed", zap.Error(err))
			return
		}
		logger.Info("run notification published", zap.String("message_id", id))
	}
}

func archiveReport(ctx context.Context, logger *zap.Logger, cfg config.Config, rep scout.Report, data []byte) string {
	provider, err := buildArchive(ctx, cfg)
	if err != nil {
		logger.Warn("archive unavailable", zap.Error(err))
		return ""
	}
	defer provider.Close()

	uri, err := provider.Put(ctx, archive.ObjectName(rep.Timestamp, rep.RunID), data)
	if err != nil {
		logger.Warn("archive failed", zap.Error(err))
		return ""
	}
	if uri != "" {
		logger.Info("report archived", zap.String("uri", uri))
	}
	return uri
}

func buildArchive(ctx context.Context, cfg config.Config) (archive.Provider, error) {
	switch cfg.Storage.Provider {
	case "local":
		return archive.NewLocal(cfg.Storage.Dir)
	case "gcs":
		return archive.NewGCS(ctx, cfg.Storage.Bucket, cfg.Storage.Prefix)
	default:
		return archive.NoOp{}, nil
	}
}
