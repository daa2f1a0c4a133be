// Package logging builds the charmbracelet/log logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects level, format and destination.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json|logfmt
	File   string // append here instead of Stderr
	Quiet  bool   // discard when no File is set (the TUI owns the terminal)
	Prefix string
}

// ParseLevel maps a level name to a log.Level; unknown names are info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name to a log.Formatter; unknown names are text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New returns a logger and a closer for its destination.
func New(opts Options) (*log.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	case opts.Quiet:
		w = io.Discard
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "tada"
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.File != "",
		Prefix:          prefix,
	})
	return logger, closer, nil
}
