package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezalel6/computer-chess/pkg/env"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Generation.MinChallenges)
	assert.Equal(t, 4, cfg.Generation.MaxChallenges)
	assert.Equal(t, 10*time.Second, cfg.Generation.Ceiling.Duration)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "c.toml", `
[engine]
path = "/opt/stockfish"
think_time = "250ms"
pool_size = 2

[generation]
include_legacy = true
seed = 99

[database]
file = "games.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/stockfish", cfg.Engine.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.ThinkTime.Duration)
	assert.Equal(t, 2, cfg.Engine.PoolSize)
	assert.True(t, cfg.Generation.IncludeLegacy)
	assert.Equal(t, uint64(99), cfg.Generation.Seed)
	assert.Equal(t, "games.db", cfg.Database.File)

	// Untouched keys keep their defaults.
	assert.Equal(t, 4, cfg.Engine.BatchWidth)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "c.yml", `
engine:
  call_timeout: 3s
generation:
  min_challenges: 1
  max_challenges: 3
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Engine.CallTimeout.Duration)
	assert.Equal(t, 1, cfg.Generation.MinChallenges)
	assert.Equal(t, 3, cfg.Generation.MaxChallenges)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing explicit file", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "nope.toml")
		}},
		{"unknown extension", func(t *testing.T) string {
			return writeFile(t, "c.ini", "x=1")
		}},
		{"bad toml", func(t *testing.T) string {
			return writeFile(t, "c.toml", "[engine\npath=")
		}},
		{"bad duration", func(t *testing.T) string {
			return writeFile(t, "c.toml", "[engine]\nthink_time = \"fast\"\n")
		}},
		{"bad yaml", func(t *testing.T) string {
			return writeFile(t, "c.yaml", "engine: [unclosed")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDump_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Generation.Catalogue = "bank.yaml"
	cfg.Engine.ThinkTime = D(75 * time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))
	assert.Contains(t, buf.String(), `think_time = "75ms"`)
	assert.Contains(t, buf.String(), "[generation]")

	path := writeFile(t, "dump.toml", buf.String())
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"think time", func(c *Config) { c.Engine.ThinkTime = D(0) }, "think_time"},
		{"call timeout", func(c *Config) { c.Engine.CallTimeout = D(-time.Second) }, "call_timeout"},
		{"pool size", func(c *Config) { c.Engine.PoolSize = 0 }, "pool_size"},
		{"batch width", func(c *Config) { c.Engine.BatchWidth = 0 }, "batch_width"},
		{"ceiling", func(c *Config) { c.Generation.Ceiling = D(0) }, "ceiling"},
		{"negative min", func(c *Config) { c.Generation.MinChallenges = -1 }, "min_challenges"},
		{"min over max", func(c *Config) {
			c.Generation.MinChallenges = 5
			c.Generation.MaxChallenges = 3
		}, "exceeds"},
		{"database", func(c *Config) { c.Database.File = "" }, "database.file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.Engine.PoolSize, cfg.Engine.BatchWidth)
	assert.Empty(t, cfg.Warnings())

	cfg.Engine.PoolSize = 2
	cfg.Engine.BatchWidth = 6
	require.NoError(t, cfg.Validate())
	warns := cfg.Warnings()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "batch_width 6 exceeds engine.pool_size 2")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CHALLENGER_ENGINE_PATH", "/usr/local/bin/stockfish")
	t.Setenv("CHALLENGER_DB", "/var/lib/challenger.db")
	t.Setenv("CHALLENGER_THINK_TIME", "40ms")
	t.Setenv("CHALLENGER_SEED", "7")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(env.NewLoader()))
	assert.Equal(t, "/usr/local/bin/stockfish", cfg.Engine.Path)
	assert.Equal(t, "/var/lib/challenger.db", cfg.Database.File)
	assert.Equal(t, 40*time.Millisecond, cfg.Engine.ThinkTime.Duration)
	assert.Equal(t, uint64(7), cfg.Generation.Seed)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("CHALLENGER_THINK_TIME", "quick")
	assert.Error(t, Default().ApplyEnv(env.NewLoader()))

	t.Setenv("CHALLENGER_THINK_TIME", "")
	t.Setenv("CHALLENGER_SEED", "x")
	assert.Error(t, Default().ApplyEnv(env.NewLoader()))
}
