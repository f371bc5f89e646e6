// Package mzap backs common/mlog.Logger with go.uber.org/zap.
package mzap

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reecen9696/casino-rollup/common/mlog"
)

// ZapLogger adapts *zap.SugaredLogger to mlog.Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ mlog.Logger = (*ZapLogger)(nil)

// InitializeLogger builds a production-style zap logger. Level is read from
// LOG_LEVEL (debug|info|warn|error), defaulting to info.
func InitializeLogger() *ZapLogger {
	logger, err := InitializeLoggerWithError()
	if err != nil {
		// Fall back to a bare-bones logger rather than crash on logger setup.
		fallback, _ := zap.NewProduction()

		return &ZapLogger{sugar: fallback.Sugar()}
	}

	return logger
}

// InitializeLoggerWithError is like InitializeLogger but surfaces setup
// failures instead of silently falling back.
func InitializeLoggerWithError() (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		_ = level.UnmarshalText([]byte(lvl))
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{sugar: z.Sugar()}, nil
}

func (l *ZapLogger) Info(args ...any)                  { l.sugar.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warn(args ...any)                  { l.sugar.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Error(args ...any)                 { l.sugar.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Debug(args ...any)                 { l.sugar.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Fatal(args ...any)                 { l.sugar.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...any) { l.sugar.Fatalf(format, args...) }
func (l *ZapLogger) Sync() error                       { return l.sugar.Sync() }

//nolint:ireturn
func (l *ZapLogger) WithFields(fields ...any) mlog.Logger {
	return &ZapLogger{sugar: l.sugar.With(fields...)}
}
