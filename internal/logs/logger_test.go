package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/completeinfo/internal/config"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("chatty")
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestNewFansOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var stderr bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "info", File: path}, &stderr)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("user fetched", "user_id", 1)
	require.NoError(t, closer.Close())

	require.Contains(t, stderr.String(), "user fetched")
	require.NotContains(t, stderr.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	require.Equal(t, "user fetched", record["msg"])
	require.EqualValues(t, 1, record["user_id"])
}

func TestNewWithoutSinks(t *testing.T) {
	logger, closer, err := New(config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	logger.Info("dropped")
	require.NoError(t, closer.Close())
}
