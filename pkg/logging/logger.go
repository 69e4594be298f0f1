// Package logging provides structured logging for the challenge
// engine with JSON, console, and multi-destination output.
package logging

import (
	"fmt"
	"strings"
)

// Logger defines the interface for structured engine logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name into a
// LogLevel. An empty name yields LevelInfo.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// mergeFields copies base and overlays extra on top of it.
func mergeFields(base map[string]any, extra []Field) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for _, f := range extra {
		out[f.Key] = f.Value
	}
	return out
}
