// SPDX-License-Identifier: EPL-2.0

package config

import (
	"io"
	"log/slog"
	"os"
)

func parseLevel(logLevel string) (slog.Leveler, error) {
	switch logLevel {
	case "none":
		return nil, nil
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return nil, ErrInvalidLogLevel
	}
}

// NewLogger builds a logger for logLevel. With no logFile it writes text to
// w; otherwise it writes JSON to logFile and returns the opened file, which
// the caller must close. The level "none" discards everything.
func NewLogger(logLevel, logFile string, w io.Writer, opts slog.HandlerOptions) (*slog.Logger, *os.File, error) {
	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	if level == nil {
		return slog.New(slog.DiscardHandler), nil, nil
	}
	opts.Level = level

	if logFile == "" {
		return slog.New(slog.NewTextHandler(w, &opts)), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, &opts)), f, nil
}

// ConfigureDefaultLogger installs the logger from NewLogger as the slog
// default, writing text to stdout when logFile is empty.
func ConfigureDefaultLogger(logLevel, logFile string, opts slog.HandlerOptions) (*os.File, error) {
	log, f, err := NewLogger(logLevel, logFile, os.Stdout, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return f, nil
}
