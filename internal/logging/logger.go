// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger configured for development or production. When file
// is non-empty, JSON output is additionally appended there so a run leaves a
// durable log next to its report.
func New(development bool, file string) (*zap.Logger, error) {
	console := consoleCore(development)
	if file == "" {
		return zap.New(console, zap.AddCaller()), nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(f),
		zapcore.InfoLevel,
	)
	return zap.New(zapcore.NewTee(console, fileCore), zap.AddCaller()), nil
}

func consoleCore(development bool) zapcore.Core {
	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	level := zapcore.InfoLevel
	if development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
}
