// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package logging builds the zap.Logger used across the daosbridge CLI and
// its library packages, trimmed from the full process-wide flag set down to
// what a library embedder actually needs: an encoding, a level, and an
// output path.
package logging

import (
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger's level, encoding, and destination.
type Config struct {
	Level       zapcore.Level
	Development bool
	Encoding    string // "console" or "json"
	OutputPath  string // "stdout", "stderr", or a filename
}

// NewDefault builds a Config suitable for interactive use: info level,
// console encoding, stderr.
func NewDefault() Config {
	return Config{
		Level:      zapcore.InfoLevel,
		Encoding:   "console",
		OutputPath: "stderr",
	}
}

// Build constructs a *zap.Logger from cfg.
func (cfg Config) Build() (*zap.Logger, error) {
	levelEncoder := zapcore.CapitalColorLevelEncoder
	if runtime.GOOS == "windows" {
		levelEncoder = zapcore.CapitalLevelEncoder
	}
	outputs := []string{cfg.OutputPath}
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level),
		Development:       cfg.Development,
		DisableCaller:     !cfg.Development,
		DisableStacktrace: !cfg.Development,
		Encoding:          cfg.Encoding,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    levelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      outputs,
		ErrorOutputPaths: outputs,
	}.Build()
}
