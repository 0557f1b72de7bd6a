package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel(" warn "))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
	require.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "api", "info", "json")
	log.Info("refresh applied", slog.Int("articles", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "api", rec["service"])
	require.Equal(t, "refresh applied", rec["msg"])
	require.EqualValues(t, 3, rec["articles"])
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "worker", "warn", "")
	log.Info("hidden")
	require.Empty(t, buf.String())

	log.Warn("shown")
	require.Contains(t, buf.String(), "service=worker")
}

func TestOrDiscard(t *testing.T) {
	require.NotNil(t, OrDiscard(nil))

	log := Discard()
	require.Same(t, log, OrDiscard(log))
}
