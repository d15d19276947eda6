package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, parseLevel(in), in)
	}
}

func TestInitializeWithWriter_JSON(t *testing.T) {
	defer Initialize("info", false)

	var buf bytes.Buffer
	InitializeWithWriter(&buf, "debug", true)
	Log.Debug("hit", "component", "cache", "key", "/posts/1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hit", line["msg"])
	assert.Equal(t, "cache", line["component"])
	assert.Equal(t, "/posts/1", line["key"])
	assert.Contains(t, line, "source")
}

func TestInitializeWithWriter_LevelFilters(t *testing.T) {
	defer Initialize("info", false)

	var buf bytes.Buffer
	InitializeWithWriter(&buf, "error", false)
	Log.Info("dropped")
	assert.Empty(t, buf.String())
}
