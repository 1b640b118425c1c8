package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewWriterText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "eatery", "warn", "")
	log.Info("hidden")
	log.Warn("shown", "pages", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "service=eatery")
	assert.Contains(t, out, "pages=3")
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "eatery", "debug", "json").Debug("page written", "path", "/")

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "page written", line["msg"])
	assert.Equal(t, "eatery", line["service"])
	assert.Equal(t, "/", line["path"])
}
