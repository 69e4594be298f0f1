package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger_NewJSONLogger_Stdout(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{Level: LevelInfo})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_NewJSONLogger_File(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "engine.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelDebug,
	})
	require.NoError(t, err)

	logger.Info("hello", LogField("key", "val"))
	logger.Debug("debug msg")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := splitNonEmpty(string(data))
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "val", entry.Fields["key"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{
		Writer: &buf,
		Level:  LevelWarn,
	})
	require.NoError(t, err)

	logger.Debug("should not appear")
	logger.Info("should not appear")
	logger.Warn("should appear")
	logger.Error("should appear")

	assert.Len(t, splitNonEmpty(buf.String()), 2)
}

func TestJSONLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{
		Writer: &buf,
		Level:  LevelInfo,
		Fields: map[string]any{"service": "challenger"},
	})
	require.NoError(t, err)

	child := logger.WithFields(GameField("g-1"))
	child.Info("turn resolved", IntField("points", 88))
	logger.Info("parent")

	lines := splitNonEmpty(buf.String())
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "challenger", entry.Fields["service"])
	assert.Equal(t, "g-1", entry.Fields["game_id"])
	assert.EqualValues(t, 88, entry.Fields["points"])

	var parent LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &parent))
	assert.Equal(t, "challenger", parent.Fields["service"])
	assert.NotContains(t, parent.Fields, "game_id")
}

func TestJSONLogger_ChildCloseKeepsParentOpen(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{Writer: &buf, Level: LevelInfo})
	require.NoError(t, err)

	require.NoError(t, logger.WithFields(StringField("a", "b")).Close())
	logger.Info("still open")
	assert.Len(t, splitNonEmpty(buf.String()), 1)
}

func TestJSONLogger_ClosedDropsEntries(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "closed.log")
	logger, err := NewJSONLogger(LoggerConfig{OutputPath: logPath})
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.Error("dropped")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJSONLogger_MarshalFailure(t *testing.T) {
	orig := jsonMarshal
	jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { jsonMarshal = orig }()

	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{Writer: &buf})
	require.NoError(t, err)
	logger.Info("lost")
	assert.Empty(t, buf.String())
}

func TestJSONLogger_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewJSONLogger(LoggerConfig{
		OutputPath: filepath.Join(blocker, "sub", "x.log"),
	})
	assert.Error(t, err)
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
