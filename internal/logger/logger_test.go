package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}

	// Should not panic
	l.Debug("test", "key", "value")
	l.Info("test")
	l.Warn("test")
	l.Error("test", "key", "value")
	assert.False(t, l.Enabled(slog.LevelError))
}

func TestNew_NilIsNoop(t *testing.T) {
	_, ok := New(nil).(NoopLogger)
	assert.True(t, ok)
}

func TestSlogAdapter_Levels(t *testing.T) {
	tests := []struct {
		name      string
		logFunc   func(Logger, string, ...any)
		wantLevel string
	}{
		{"debug", func(l Logger, msg string, args ...any) { l.Debug(msg, args...) }, "DEBUG"},
		{"info", func(l Logger, msg string, args ...any) { l.Info(msg, args...) }, "INFO"},
		{"warn", func(l Logger, msg string, args ...any) { l.Warn(msg, args...) }, "WARN"},
		{"error", func(l Logger, msg string, args ...any) { l.Error(msg, args...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			tt.logFunc(l, "schema reflected", "table", "cats")

			out := buf.String()
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, `msg="schema reflected"`)
			assert.Contains(t, out, "table=cats")
		})
	}
}

func TestSlogAdapter_Enabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	assert.False(t, l.Enabled(slog.LevelDebug))
	assert.True(t, l.Enabled(slog.LevelInfo))

	l.Info("query executed", "sql", "SELECT * FROM cats", "rows", 2)
	assert.Contains(t, buf.String(), `"sql":"SELECT * FROM cats"`)
	assert.Contains(t, buf.String(), `"rows":2`)
}
