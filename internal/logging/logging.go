// Package logging provides structured logging for changelog-gen using slog.
// Logs go to stderr so that changelog output on stdout stays clean.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// FormatEnv selects the handler: "json" or "text" (default).
const FormatEnv = "CHANGELOG_GEN_LOG_FORMAT"

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Format represents a log output format.
type Format int

const (
	// FormatText outputs logs in human-readable key=value form.
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// ParseFormat maps "json" to FormatJSON and everything else to FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// FormatFromEnv reads the format from CHANGELOG_GEN_LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(os.Getenv(FormatEnv))
}

// Init replaces the package logger. A nil writer means stderr.
func Init(level slog.Level, format Format, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	defaultLogger = slog.New(handler)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return defaultLogger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// Debugf adapts printf-style debug hooks, like git.SetDebugLogger, to
// the structured logger.
func Debugf(component string) func(format string, args ...any) {
	return func(format string, args ...any) {
		if !defaultLogger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		defaultLogger.Debug(fmt.Sprintf(format, args...), "component", component)
	}
}
