// Package logging builds the charmbracelet/log loggers portal writes to.
//
// The TUI owns the terminal, so by default logs go to a file. A path of "-"
// selects stderr, which the CLI subcommands use.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Stderr selects standard error as the log destination.
const Stderr = "-"

// New returns a logger writing to w at the given level. An empty level
// means info.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		Level:           lvl,
		Prefix:          "portal",
	}), nil
}

// Open returns a logger appending to the file at path, creating parent
// directories. File output uses logfmt so it stays greppable. The returned
// closer releases the file; for stderr it is a no-op.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == Stderr {
		logger, err := New(os.Stderr, level)
		if err != nil {
			return nil, nil, err
		}
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(file, level)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	logger.SetFormatter(log.LogfmtFormatter)
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(level string) (log.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return log.InfoLevel, nil
	}
	switch level {
	case "debug", "info", "warn", "error":
		return log.ParseLevel(level)
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}
