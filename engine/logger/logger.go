// Package logger builds the zap loggers handed to engine components.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes how the engine logger is built.
type Config struct {
	// Level is the minimum enabled level ("debug", "info", "warn", "error"). Unknown values fall back to info.
	Level string
	// Format is the output encoding, "console" or "json". Anything else is treated as json.
	Format string
	// Development enables zap's development mode (colored levels, DPanic panics).
	Development bool
}

// New creates a zap logger from the given configuration.
//
// Parameters:
//   - cfg: level, encoding and mode settings
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if zap fails to build its sinks
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	if strings.EqualFold(cfg.Format, "console") {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	// Per-tick debug logs would be sampled away in production; the engine wants all of them or none.
	zapConfig.Sampling = nil

	l, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// ParseLevel converts a level name into a zapcore.Level, defaulting to info.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - zapcore.Level: the parsed level
func ParseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
