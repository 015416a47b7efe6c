// Package logger provides the structured logging used by sqlobject.
// Records log through a small Logger interface so a disabled logger costs nothing;
// log/slog is the supported backend.
package logger

import (
	"context"
	"log/slog"
)

// Logger defines the logging interface for sqlobject.
// Arguments after msg are alternating key-value pairs, as in log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Enabled reports whether messages at level would be emitted.
	Enabled(level slog.Level) bool
}

// NoopLogger discards everything. It is the default.
type NoopLogger struct{}

// Debug does nothing.
func (NoopLogger) Debug(_ string, _ ...any) {}

// Info does nothing.
func (NoopLogger) Info(_ string, _ ...any) {}

// Warn does nothing.
func (NoopLogger) Warn(_ string, _ ...any) {}

// Error does nothing.
func (NoopLogger) Error(_ string, _ ...any) {}

// Enabled always returns false.
func (NoopLogger) Enabled(_ slog.Level) bool { return false }

// SlogAdapter wraps log/slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// New returns a Logger backed by l, or a NoopLogger when l is nil.
func New(l *slog.Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return &SlogAdapter{logger: l}
}

// Debug logs a debug-level message with structured key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info logs an info-level message with structured key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning-level message with structured key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error logs an error-level message with structured key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

// Enabled reports whether the underlying handler accepts level.
func (a *SlogAdapter) Enabled(level slog.Level) bool {
	return a.logger.Enabled(context.Background(), level)
}
