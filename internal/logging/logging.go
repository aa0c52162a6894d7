// Package logging builds the charmbracelet/log loggers used across the
// app. The TUI owns the terminal, so it logs to a file; CLI commands log
// to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/model"
)

// New returns a logger writing to w at the configured level. An unknown
// level falls back to info.
func New(w io.Writer, cfg model.LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "taskpane",
	})
}

// NewStderr returns a logger for CLI commands.
func NewStderr(cfg model.LogConfig) *log.Logger {
	return New(os.Stderr, cfg)
}

// OpenFile returns a logger appending to cfg.File, creating its
// directory. Close the returned closer on exit.
func OpenFile(cfg model.LogConfig) (*log.Logger, io.Closer, error) {
	if cfg.File == "" {
		return New(io.Discard, cfg), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}

	logger := New(f, cfg)
	logger.SetFormatter(log.LogfmtFormatter)
	return logger, f, nil
}

// Component returns a child logger tagged with a component name.
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		parent = log.Default()
	}
	return parent.WithPrefix(name)
}
