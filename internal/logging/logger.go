// Package logging builds the zerolog logger used for diagnostics.
// Progress output meant for the user goes to stdout via fmt; warnings and
// debug detail go through this logger on stderr.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	NoColor    bool
}

// DefaultConfig returns warn-level console logging, coloured only when
// stderr is a terminal.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.WarnLevel,
		Format:     "console",
		TimeFormat: time.Kitchen,
		NoColor:    !IsTerminal(os.Stderr),
	}
}

// New creates a logger writing to w with the given configuration.
func New(w io.Writer, cfg Config) zerolog.Logger {
	output := w
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: cfg.TimeFormat,
			NoColor:    cfg.NoColor,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv creates a stderr logger based on environment variables:
// PWAICONS_LOG_LEVEL: debug, info, warn, error (default: warn)
// PWAICONS_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()

	if level := os.Getenv("PWAICONS_LOG_LEVEL"); level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			cfg.Level = l
		}
	}

	if format := os.Getenv("PWAICONS_LOG_FORMAT"); format != "" {
		switch format {
		case "json", "console":
			cfg.Format = format
		}
	}

	return New(os.Stderr, cfg)
}

// FromContext extracts the logger from ctx. Without one attached it
// returns a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	child := logger.With().Str("component", component).Logger()
	return WithContext(ctx, child)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
