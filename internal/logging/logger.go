// Package logging builds the engine's zap.Logger from its configuration.
// Grounded on cmd/nerd/main.go's PersistentPreRunE (zap.NewProductionConfig,
// zap.NewAtomicLevelAt(zapcore.DebugLevel) under verbose), generalized from
// a single --verbose flag to the engine's own four-level config and
// optional file output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"limbo/internal/config"
)

// New builds a zap.Logger from cfg. Format "json" uses zap's production
// encoder (for log aggregation); anything else uses the development
// console encoder (for interactive use, matching cmd/limbo's default
// terminal-facing posture).
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if cfg.File != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.File)
		zcfg.ErrorOutputPaths = append(zcfg.ErrorOutputPaths, cfg.File)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
