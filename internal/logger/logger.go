// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/venues-api/internal/config"
)

// New returns a logger writing JSON to stdout, or a human readable console
// format when cfg.Pretty is set. Unknown levels fall back to info.
func New(cfg config.LogConfig, service, env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, cfg.Level).With().
		Str("service", service).
		Str("env", env).
		Logger()
}

// NewWithWriter is New without the service fields, for tests and tools.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
