// Package sinks holds Sink implementations for the progress hub.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"sitescout/internal/progress"
)

// Log writes progress events to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a Log sink.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Consume implements progress.Sink.
func (l *Log) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("run_id", evt.RunUUID().String()),
			zap.String("stage", string(evt.Stage)),
		}
		if evt.Category != "" {
			fields = append(fields, zap.String("category", evt.Category))
		}
		if evt.Site != "" {
			fields = append(fields, zap.String("site", evt.Site))
		}
		if evt.Status != "" {
			fields = append(fields, zap.String("status", string(evt.Status)))
		}
		if evt.Dur > 0 {
			fields = append(fields, zap.Duration("duration", evt.Dur))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		l.logger.Info("progress", fields...)
	}
	return nil
}

// Close implements progress.Sink. Sync errors on terminal outputs are not
// actionable and are ignored.
func (l *Log) Close(context.Context) error {
	_ = l.logger.Sync()
	return nil
}
