package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level logging.LogLevel, format logging.LogFormat) (*logging.Logger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	l := logging.New(level, format)
	l.SetOutput(&stdout, &stderr)
	return l, &stdout, &stderr
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_JSON(t *testing.T) {
	l, stdout, stderr := newTestLogger(logging.LevelInfo, logging.FormatJSON)

	l.Info("connected", map[string]any{"addr": "127.0.0.1:9089"})

	entries := decodeLines(t, stdout)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "connected", entries[0]["message"])
	assert.Equal(t, "127.0.0.1:9089", entries[0]["addr"])
	assert.NotEmpty(t, entries[0]["timestamp"])
	assert.Empty(t, stderr.String())
}

func TestLogger_ErrorsGoToStderr(t *testing.T) {
	l, stdout, stderr := newTestLogger(logging.LevelDebug, logging.FormatJSON)

	l.Warn("slow subscriber")
	l.Error("read failed", map[string]any{"error": "EOF"})

	assert.Len(t, decodeLines(t, stdout), 1)
	errEntries := decodeLines(t, stderr)
	require.Len(t, errEntries, 1)
	assert.Equal(t, "error", errEntries[0]["level"])
	assert.Equal(t, "EOF", errEntries[0]["error"])
}

func TestLogger_LevelFilter(t *testing.T) {
	tests := []struct {
		level     logging.LogLevel
		wantLines int
	}{
		{level: logging.LevelDebug, wantLines: 3},
		{level: logging.LevelInfo, wantLines: 2},
		{level: logging.LevelWarn, wantLines: 1},
		{level: logging.LevelError, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			l, stdout, _ := newTestLogger(tt.level, logging.FormatJSON)
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			assert.Len(t, decodeLines(t, stdout), tt.wantLines)
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	l, stdout, _ := newTestLogger(logging.LevelError, logging.FormatJSON)
	l.Info("hidden")
	l.SetLevel(logging.LevelInfo)
	l.Info("shown")

	entries := decodeLines(t, stdout)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestLogger_Redaction(t *testing.T) {
	l, stdout, _ := newTestLogger(logging.LevelInfo, logging.FormatJSON)

	l.Info("signed", map[string]any{
		"signature": "ab12",
		"pid":       "p1",
		"nested":    map[string]any{"totp": "123456", "path": "totp/get"},
	})

	entries := decodeLines(t, stdout)
	require.Len(t, entries, 1)
	assert.Equal(t, "[REDACTED]", entries[0]["signature"])
	assert.Equal(t, "p1", entries[0]["pid"])
	nested, ok := entries[0]["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", nested["totp"])
	assert.Equal(t, "totp/get", nested["path"])
}

func TestLogger_Human(t *testing.T) {
	l, stdout, _ := newTestLogger(logging.LevelInfo, logging.FormatHuman)
	l.Info("dialing", map[string]any{"attempt": 2})

	out := stdout.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, `msg=dialing`)
	assert.Contains(t, out, "attempt=2")
}

func TestContextLogger(t *testing.T) {
	l, stdout, stderr := newTestLogger(logging.LevelInfo, logging.FormatJSON)

	cl := l.WithFields(map[string]any{"component": "client"})
	cl.Warn("event dropped", map[string]any{"subscriber": 3})
	cl.Error("read failed", map[string]any{"component": "transport"})

	entries := decodeLines(t, stdout)
	require.Len(t, entries, 1)
	assert.Equal(t, "client", entries[0]["component"])
	assert.InDelta(t, 3, entries[0]["subscriber"], 0)

	errEntries := decodeLines(t, stderr)
	require.Len(t, errEntries, 1)
	assert.Equal(t, "transport", errEntries[0]["component"])
}

func TestLogger_Concurrent(t *testing.T) {
	l, stdout, _ := newTestLogger(logging.LevelInfo, logging.FormatJSON)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Info("tick", map[string]any{"n": i})
		}()
	}
	wg.Wait()

	assert.Len(t, decodeLines(t, stdout), 20)
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, logging.LevelWarn, lvl)

	_, err = logging.ParseLevel("trace")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.Discard().Error("nothing to see")
	})
}
