package logging

import (
	"fmt"
	"os"
)

// Options selects a logger from configuration values.
type Options struct {
	// Format is "json" or "console".
	Format string
	// Level is a name accepted by ParseLevel.
	Level string
	// File additionally writes JSON lines to this path.
	File string
}

// Setup builds the process logger. Console or JSON output goes to
// stderr; when File is set a JSON copy is appended there as well.
func Setup(opts Options) (Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var primary Logger
	switch opts.Format {
	case "", "console":
		primary = NewConsoleLogger(os.Stderr, level)
	case "json":
		primary, err = NewJSONLogger(LoggerConfig{
			Writer: os.Stderr,
			Level:  level,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.File == "" {
		return primary, nil
	}

	file, err := NewJSONLogger(LoggerConfig{
		OutputPath: opts.File,
		Level:      level,
	})
	if err != nil {
		return nil, err
	}
	return NewMultiLogger(primary, file), nil
}
