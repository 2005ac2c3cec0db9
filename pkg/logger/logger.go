// Package logger builds the process-wide zerolog logger. Components never
// construct their own; they receive this one by injection.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout. Dev runs at debug level, everything
// else at info.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if env == "dev" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}
