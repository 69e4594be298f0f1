package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger provides colored console output.
type ConsoleLogger struct {
	mu     *sync.Mutex
	output io.Writer
	level  LogLevel
	fields map[string]any
}

// NewConsoleLogger creates a console logger writing to w, or to
// stdout when w is nil.
func NewConsoleLogger(w io.Writer, level LogLevel) *ConsoleLogger {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleLogger{
		mu:     &sync.Mutex{},
		output: w,
		level:  level,
		fields: make(map[string]any),
	}
}

func (c *ConsoleLogger) log(
	level LogLevel, color, msg string, fields ...Field,
) {
	if level < c.level {
		return
	}

	all := mergeFields(c.fields, fields)

	var fieldStr string
	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, all[k]))
		}
		fieldStr = " " + colorGray +
			fmt.Sprintf("{%s}", strings.Join(parts, ", ")) +
			colorReset
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(
		c.output, "%s%s%s [%s%-5s%s] %s%s\n",
		colorGray, time.Now().Format("15:04:05"), colorReset,
		color, level.String(), colorReset,
		msg, fieldStr,
	)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, colorBlue, msg, fields...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, colorYellow, msg, fields...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, colorRed, msg, fields...)
}

// Debug logs a debug message.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.log(LevelDebug, colorGray, msg, fields...)
}

// WithFields returns a new Logger with additional default
// fields.
func (c *ConsoleLogger) WithFields(
	fields ...Field,
) Logger {
	return &ConsoleLogger{
		mu:     c.mu,
		output: c.output,
		level:  c.level,
		fields: mergeFields(c.fields, fields),
	}
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
