// Package logger builds the zap logger used by the CLI.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

type Config struct {
	Debug  bool
	Format string
	// OutputPaths defaults to stderr so that stdout stays free for
	// rendered workflows.
	OutputPaths []string
}

func DefaultConfig() Config {
	return Config{Format: FormatHuman}
}

// New builds a logger: JSON for machines, colored console output for
// humans.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	switch cfg.Format {
	case FormatJSON:
		zapConfig = zap.NewProductionConfig()
	case FormatHuman, "":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.DisableStacktrace = true
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return nil, fmt.Errorf("unknown log format %q, expected %s or %s", cfg.Format, FormatHuman, FormatJSON)
	}

	zapConfig.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zapConfig.OutputPaths = cfg.OutputPaths
	}
	if cfg.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
