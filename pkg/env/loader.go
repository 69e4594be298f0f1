// Package env reads settings from the process environment and from
// optional .env files, with the process environment taking
// precedence.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultPrefix is prepended to every key looked up by NewLoader.
const DefaultPrefix = "CHALLENGER_"

// Loader defines the interface for environment variable management.
type Loader interface {
	// Load reads variables from a .env file.
	Load(filepath string) error
	// Get retrieves a variable value.
	Get(key string) string
	// Lookup retrieves a variable and reports whether it is set.
	Lookup(key string) (string, bool)
	// GetWithDefault retrieves a variable with a default fallback.
	GetWithDefault(key, defaultValue string) string
	// Int parses a variable as an integer.
	Int(key string) (int, bool, error)
	// Duration parses a variable as a time.Duration.
	Duration(key string) (time.Duration, bool, error)
}

// DefaultLoader implements Loader over a key prefix.
type DefaultLoader struct {
	mu     sync.RWMutex
	vars   map[string]string
	prefix string
	loaded bool
}

// NewLoader creates a loader for CHALLENGER_-prefixed variables.
func NewLoader() *DefaultLoader {
	return NewLoaderWithPrefix(DefaultPrefix)
}

// NewLoaderWithPrefix creates a loader whose keys are prefixed with
// prefix. An empty prefix reads keys verbatim.
func NewLoaderWithPrefix(prefix string) *DefaultLoader {
	return &DefaultLoader{
		vars:   make(map[string]string),
		prefix: prefix,
	}
}

// Load reads KEY=VALUE lines. Blank lines and # comments are
// skipped and surrounding quotes are removed. Keys are stored as
// written, prefix included.
func (l *DefaultLoader) Load(filepath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", filepath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		l.vars[key] = value
	}

	l.loaded = true
	return scanner.Err()
}

func (l *DefaultLoader) Lookup(key string) (string, bool) {
	name := l.prefix + key
	// OS env takes precedence
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v, true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.vars[name]
	if v == "" {
		return "", false
	}
	return v, ok
}

func (l *DefaultLoader) Get(key string) string {
	v, _ := l.Lookup(key)
	return v
}

func (l *DefaultLoader) GetWithDefault(key, defaultValue string) string {
	if v, ok := l.Lookup(key); ok {
		return v
	}
	return defaultValue
}

func (l *DefaultLoader) Int(key string) (int, bool, error) {
	v, ok := l.Lookup(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer in %s%s: %w", l.prefix, key, err)
	}
	return n, true, nil
}

func (l *DefaultLoader) Duration(key string) (time.Duration, bool, error) {
	v, ok := l.Lookup(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, true, fmt.Errorf("invalid duration in %s%s: %w", l.prefix, key, err)
	}
	return d, true, nil
}
