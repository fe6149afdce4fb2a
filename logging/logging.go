// Package logging configures the structured loggers used throughout tabula.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-sif/tabula/errors"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = slog.Level(-8)
	// DebugLevel indicates a log message's level of criticality
	DebugLevel = slog.LevelDebug
	// InfoLevel indicates a log message's level of criticality
	InfoLevel = slog.LevelInfo
	// WarnLevel indicates a log message's level of criticality
	WarnLevel = slog.LevelWarn
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel = slog.LevelError
	// FatalLevel indicates a log message's level of criticality
	FatalLevel = slog.Level(12)
)

// LevelToString translates a log level to a string representation
func LevelToString(level slog.Level) string {
	switch {
	case level >= FatalLevel:
		return "FATAL"
	case level >= ErrorLevel:
		return "ERROR"
	case level >= WarnLevel:
		return "WARN"
	case level >= InfoLevel:
		return "INFO"
	case level >= DebugLevel:
		return "DEBUG"
	default:
		return "TRACE"
	}
}

// ParseLevel translates a level name, such as "debug" or "WARN", to a log level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "", "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	}
	return InfoLevel, errors.InvalidArgumentError{Argument: "level", Reason: "unknown log level " + name}
}

// New returns a logger writing to w at the given level, formatted as "text" or "json"
func New(w io.Writer, level string, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelToString(l))
				}
			}
			return a
		},
	}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "format", Reason: "log format must be text or json, not " + format}
}

// Discard returns a logger which drops every message
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: FatalLevel + 1}))
}

// OrDiscard returns logger, or a discarding logger if it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
