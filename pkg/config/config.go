// Package config loads the challenger configuration from TOML or
// YAML files, applies environment overrides and validates the
// result.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bezalel6/computer-chess/pkg/env"
)

// DefaultFile is read when no configuration path is given. Its
// absence is not an error.
const DefaultFile = "challenger.toml"

// Duration is a time.Duration written as text ("150ms") in both
// TOML and YAML.
type Duration struct {
	time.Duration
}

// D wraps d.
func D(d time.Duration) Duration { return Duration{d} }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// EngineConf configures the UCI evaluator.
type EngineConf struct {
	// Path of the engine binary, e.g. stockfish.
	Path        string   `toml:"path" yaml:"path"`
	ThinkTime   Duration `toml:"think_time" yaml:"think_time"`
	CallTimeout Duration `toml:"call_timeout" yaml:"call_timeout"`
	PoolSize    int      `toml:"pool_size" yaml:"pool_size"`
	BatchWidth  int      `toml:"batch_width" yaml:"batch_width"`
	Hash        int      `toml:"hash" yaml:"hash"`
	Threads     int      `toml:"threads" yaml:"threads"`
}

// GenerationConf configures challenge selection.
type GenerationConf struct {
	Ceiling       Duration `toml:"ceiling" yaml:"ceiling"`
	MinChallenges int      `toml:"min_challenges" yaml:"min_challenges"`
	MaxChallenges int      `toml:"max_challenges" yaml:"max_challenges"`
	IncludeLegacy bool     `toml:"include_legacy" yaml:"include_legacy"`
	// Seed fixes the selector's random source when non-zero.
	Seed uint64 `toml:"seed" yaml:"seed"`
	// Catalogue is an optional bank file overriding descriptions,
	// windows and enable flags.
	Catalogue string `toml:"catalogue,omitempty" yaml:"catalogue,omitempty"`
}

type DatabaseConf struct {
	File string `toml:"file" yaml:"file"`
}

type ServerConf struct {
	Addr      string `toml:"addr" yaml:"addr"`
	WebSocket bool   `toml:"websocket" yaml:"websocket"`
	// ReportDir receives game reports and the history file.
	ReportDir string `toml:"report_dir" yaml:"report_dir"`
	// Token, when set, is required as a bearer token on /v1.
	Token string `toml:"token,omitempty" yaml:"token,omitempty"`
}

type LogConf struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file,omitempty" yaml:"file,omitempty"`
}

// Config is the complete configuration.
type Config struct {
	Engine     EngineConf     `toml:"engine" yaml:"engine"`
	Generation GenerationConf `toml:"generation" yaml:"generation"`
	Database   DatabaseConf   `toml:"database" yaml:"database"`
	Server     ServerConf     `toml:"server" yaml:"server"`
	Log        LogConf        `toml:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConf{
			Path:        "stockfish",
			ThinkTime:   D(100 * time.Millisecond),
			CallTimeout: D(2 * time.Second),
			PoolSize:    4,
			BatchWidth:  4,
			Hash:        16,
			Threads:     1,
		},
		Generation: GenerationConf{
			Ceiling:       D(10 * time.Second),
			MinChallenges: 2,
			MaxChallenges: 4,
		},
		Database: DatabaseConf{
			File: "challenger.db",
		},
		Server: ServerConf{
			Addr:      ":8080",
			WebSocket: true,
			ReportDir: "reports",
		},
		Log: LogConf{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. The format follows the file
// extension: .toml, or .yaml/.yml. An empty path means DefaultFile,
// which may be missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. Keys are read
// through l, so with the default loader ENGINE_PATH means
// CHALLENGER_ENGINE_PATH.
func (c *Config) ApplyEnv(l env.Loader) error {
	if v, ok := l.Lookup("ENGINE_PATH"); ok {
		c.Engine.Path = v
	}
	if v, ok := l.Lookup("DB"); ok {
		c.Database.File = v
	}
	if v, ok := l.Lookup("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := l.Lookup("TOKEN"); ok {
		c.Server.Token = v
	}
	if v, ok := l.Lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if d, ok, err := l.Duration("THINK_TIME"); err != nil {
		return err
	} else if ok {
		c.Engine.ThinkTime = D(d)
	}
	if n, ok, err := l.Int("SEED"); err != nil {
		return err
	} else if ok {
		c.Generation.Seed = uint64(n)
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.ThinkTime.Duration <= 0 {
		errs = append(errs, errors.New("engine.think_time must be positive"))
	}
	if c.Engine.CallTimeout.Duration <= 0 {
		errs = append(errs, errors.New("engine.call_timeout must be positive"))
	}
	if c.Engine.PoolSize < 1 {
		errs = append(errs, errors.New("engine.pool_size must be at least 1"))
	}
	if c.Engine.BatchWidth < 1 {
		errs = append(errs, errors.New("engine.batch_width must be at least 1"))
	}
	if c.Generation.Ceiling.Duration <= 0 {
		errs = append(errs, errors.New("generation.ceiling must be positive"))
	}
	if c.Generation.MinChallenges < 0 {
		errs = append(errs, errors.New("generation.min_challenges must not be negative"))
	}
	if c.Generation.MinChallenges > c.Generation.MaxChallenges {
		errs = append(errs, fmt.Errorf("generation.min_challenges %d exceeds max_challenges %d",
			c.Generation.MinChallenges, c.Generation.MaxChallenges))
	}
	if c.Database.File == "" {
		errs = append(errs, errors.New("database.file is required"))
	}
	return errors.Join(errs...)
}

// Warnings lists settings that are valid but work against each
// other.
func (c *Config) Warnings() []string {
	var warns []string
	if c.Engine.BatchWidth > c.Engine.PoolSize {
		warns = append(warns, fmt.Sprintf(
			"engine.batch_width %d exceeds engine.pool_size %d: the extra calls wait for an engine within their call_timeout",
			c.Engine.BatchWidth, c.Engine.PoolSize))
	}
	return warns
}

// Dump serialises the configuration as TOML.
func (c *Config) Dump(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
