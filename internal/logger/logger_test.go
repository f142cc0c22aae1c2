package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Configure(level, format, &buf)
	t.Cleanup(func() { Configure("", "", os.Stderr) })
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestConfigure_LevelFilters(t *testing.T) {
	buf := capture(t, "warn", "text")

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_JSON(t *testing.T) {
	buf := capture(t, "debug", "json")

	DebugContext(context.Background(), "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestRedactSensitiveData(t *testing.T) {
	googleKey := "AIza" + strings.Repeat("x", 35)
	openaiKey := "sk-" + strings.Repeat("a", 40)

	tests := []struct {
		name  string
		input string
		leak  string
	}{
		{"google key", "request failed: key " + googleKey + " invalid", googleKey},
		{"openai key", "Incorrect API key provided: " + openaiKey, openaiKey},
		{"bearer", "Authorization: Bearer abc.def-123", "abc.def-123"},
		{"query key", "GET /v1beta/models?key=" + strings.Repeat("z", 30), strings.Repeat("z", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactSensitiveData(tt.input)
			assert.NotContains(t, got, tt.leak)
			assert.Contains(t, got, "[REDACTED]")
		})
	}

	assert.Equal(t, "nothing secret here", RedactSensitiveData("nothing secret here"))
}

func TestModelError_Redacts(t *testing.T) {
	buf := capture(t, "info", "text")
	key := "AIza" + strings.Repeat("q", 35)

	ModelError(context.Background(), "gemini", "summarize", errors.New("bad key "+key))

	assert.NotContains(t, buf.String(), key)
	assert.Contains(t, buf.String(), "operation=summarize")
}

func TestModelCall(t *testing.T) {
	buf := capture(t, "info", "text")

	ModelCall(context.Background(), "openai", "chat", 1500*time.Millisecond, "chars", 42)

	out := buf.String()
	assert.Contains(t, out, "provider=openai")
	assert.Contains(t, out, "chars=42")
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "", Err(nil).Value.String())
}

func TestWarnContext(t *testing.T) {
	buf := capture(t, "warn", "text")

	WarnContext(context.Background(), "request rejected", "status", 400)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=400")
}
