package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "warn", FormatJSON)

	logger.Info("dropped")
	logger.Warn("wizard.submit failed", "outcome", "unavailable")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "wizard.submit failed", entry["msg"])
	assert.Equal(t, "onboarding", entry["service"])
	assert.Equal(t, "unavailable", entry["outcome"])
}

func TestNewWithWriterDefaultsToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "loud", "")

	logger.Debug("dropped")
	assert.Empty(t, buf.String())
	logger.Info("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestNewWithWriterTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "debug", "TEXT")

	logger.Debug("wizard.open", "wizard_id", "w-1")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "service=onboarding")
	assert.Contains(t, buf.String(), "wizard_id=w-1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" debug "))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestDiscardDropsEverything(t *testing.T) {
	assert.False(t, Discard().Enabled(t.Context(), slog.LevelError))
}
