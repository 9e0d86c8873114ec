// Package logging builds the zap loggers used across halfshift.
// Loggers are named by category so every line says which stage wrote it.
// Output goes to stderr or a file, never stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"halfshift/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config resolution
	CategoryCipher   Category = "cipher"   // Encode/decode statistics
	CategoryPipeline Category = "pipeline" // Run steps and batch progress
	CategoryIO       Category = "io"       // File reads and writes
	CategoryWatch    Category = "watch"    // Filesystem watcher
)

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a logger from cfg. verbose forces debug level. With a file
// set, output goes through a lumberjack rotator instead of stderr.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	var opts []zap.Option
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, opts...), nil
}

// For returns a child logger named after category. A nil logger yields a
// no-op logger so callers never need to guard.
func For(l *zap.Logger, category Category) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.Named(string(category))
}

// Timer helps measure operation duration
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation
func StartTimer(l *zap.Logger, operation string) *Timer {
	if l == nil {
		l = zap.NewNop()
	}
	return &Timer{logger: l, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop(fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug(t.op+" completed", append(fields, zap.Duration("elapsed", elapsed))...)
	return elapsed
}
