package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns the zap configuration for the given format ("console" or
// "json") and level. Stack traces are only attached from DPanic up: a
// rejected job is logged at error level and is an expected outcome.
func Config(format, level string) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("failed to parse log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	return cfg, nil
}

// New builds a zap logger for the given format and level.
func New(format, level string) (*zap.Logger, error) {
	cfg, err := Config(format, level)
	if err != nil {
		return nil, err
	}
	return cfg.Build(zap.AddStacktrace(zapcore.DPanicLevel))
}

// Init builds a logger and installs it as the zap global.
// The returned func restores the previous globals and flushes the logger.
func Init(format, level string) (func(), error) {
	l, err := New(format, level)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		undo()
	}, nil
}
