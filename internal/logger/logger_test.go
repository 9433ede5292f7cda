package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	previous := Logger
	t.Cleanup(func() {
		Close()
		Logger = previous
	})

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Setup(dir, "warn"))

	Info("hidden message")
	Warn("visible message", "field", "cliente")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "quotegen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible message")
	assert.Contains(t, string(data), "field=cliente")
	assert.NotContains(t, string(data), "hidden message")
}

func TestCloseStopsWritingToFile(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	dir := t.TempDir()
	require.NoError(t, Setup(dir, "info"))
	Info("before close")
	require.NoError(t, Close())
	require.NoError(t, Close(), "closing twice is a no-op")
	Info("after close")

	data, err := os.ReadFile(filepath.Join(dir, "quotegen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "before close")
	assert.NotContains(t, string(data), "after close")
}
