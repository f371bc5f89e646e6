// Package mlog defines the logging interface shared by every component of
// the sequencer. Concrete implementations (see common/mzap) back it with a
// real structured logger; callers only ever depend on this interface.
package mlog

import "context"

// Logger is the common interface for log implementations used across the
// sequencer. Every component logs through this interface rather than the
// standard library's log package.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)

	// WithFields returns a child logger that attaches the given key/value
	// pairs to every subsequent entry.
	WithFields(fields ...any) Logger

	Sync() error
}

type loggerContextKey string

const ctxKey loggerContextKey = "logger"

// ContextWithLogger returns a context carrying logger as its Logger value.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ctxKey, logger)
}

// FromContext extracts the Logger previously stored by ContextWithLogger,
// falling back to a no-op logger if none is present.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey).(Logger); ok && l != nil {
		return l
	}

	return &NoneLogger{}
}

// NoneLogger discards everything. Used as a safe zero-value fallback.
type NoneLogger struct{}

func (n *NoneLogger) Info(args ...any)                  {}
func (n *NoneLogger) Infof(format string, args ...any)  {}
func (n *NoneLogger) Warn(args ...any)                  {}
func (n *NoneLogger) Warnf(format string, args ...any)  {}
func (n *NoneLogger) Error(args ...any)                 {}
func (n *NoneLogger) Errorf(format string, args ...any) {}
func (n *NoneLogger) Debug(args ...any)                 {}
func (n *NoneLogger) Debugf(format string, args ...any) {}
func (n *NoneLogger) Fatal(args ...any)                 {}
func (n *NoneLogger) Fatalf(format string, args ...any) {}
func (n *NoneLogger) Sync() error                       { return nil }

//nolint:ireturn
func (n *NoneLogger) WithFields(fields ...any) Logger { return n }
