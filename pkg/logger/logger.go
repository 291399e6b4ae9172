// Package logger builds the slog loggers used across askpplx. Diagnostic
// output never goes to stdout, which carries the answer.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level  slog.Level
	pretty bool
	json   bool
	writer io.Writer
}

// New creates a *slog.Logger. By default it writes text records at Info
// level to os.Stderr.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch {
	case cfg.json:
		return slog.New(slog.NewJSONHandler(cfg.writer, &slog.HandlerOptions{Level: cfg.level}))

	case cfg.pretty:
		handler := charmlog.NewWithOptions(cfg.writer, charmlog.Options{
			Level:           charmlog.Level(cfg.level),
			ReportTimestamp: true,
			Prefix:          "askpplx",
		})
		return slog.New(handler)

	default:
		return slog.New(slog.NewTextHandler(cfg.writer, &slog.HandlerOptions{Level: cfg.level}))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
