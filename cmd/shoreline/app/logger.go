package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/cleanupdata/shoreline/pkg/logging"
)

// NewLogger creates a configured logger. Level precedence, highest first:
// explicit --log-level, -v/--verbose (debug), -q/--quiet (warn), the
// LOG_LEVEL environment variable, then the info default.
func NewLogger(config *Config) zerolog.Logger {
	var logger zerolog.Logger
	if config.LogFormat == "json" {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	return logger.Level(determineLogLevel(config))
}

func determineLogLevel(config *Config) zerolog.Level {
	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			return level
		}
	}
	if config.Quiet {
		return zerolog.WarnLevel
	}
	if config.Verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
