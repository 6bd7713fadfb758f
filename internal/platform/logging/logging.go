// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
)

// Options selects the output format and level.
type Options struct {
	// Format is "console", "json" or "ecs". Empty picks console for
	// development and json otherwise.
	Format string
	Level  string
	Dev    bool
	Out    io.Writer
}

// New returns a logger stamped with the service name and a timestamp.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	format := opts.Format
	if format == "" {
		format = "json"
		if opts.Dev {
			format = "console"
		}
	}

	var logger zerolog.Logger
	switch format {
	case "ecs":
		// ECS field names (@timestamp, log.level, message) for Elastic ingestion.
		logger = ecszerolog.New(out)
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	default:
		logger = zerolog.New(out).With().Timestamp().Logger()
	}

	return logger.Level(level).With().Str("service", "odonto-server").Logger()
}
