// Package logger builds the zap loggers used across textcore and holds
// the process-wide instance.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/textcore/internal/config"
)

var (
	L       = zap.NewNop()
	S       = L.Sugar()
	logFile *os.File
)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New returns a console logger writing to w at the configured level.
// cfg.File is ignored; see Init.
func New(cfg config.LoggingConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = []zap.Option{zap.AddCaller(), zap.Development(), zap.AddStacktrace(zapcore.WarnLevel)}
	}
	return zap.New(core, opts...), nil
}

// Init replaces the global logger. Output goes to cfg.File, truncated,
// or to stderr when no file is set.
func Init(cfg config.LoggingConfig) error {
	var w io.Writer = os.Stderr
	var f *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return err
		}
		var err error
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		w = f
	}

	l, err := New(cfg, w)
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return err
	}

	Close()
	L, S, logFile = l, l.Sugar(), f
	S.Debugw("logger initialized", "level", cfg.Level, "file", cfg.File)
	return nil
}

// Close flushes the global logger and closes its file, leaving a no-op
// logger in place.
func Close() {
	_ = L.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	L = zap.NewNop()
	S = L.Sugar()
}

// Named returns a child of the global logger.
func Named(name string) *zap.Logger {
	return L.Named(name)
}

// Convenience functions for common logging patterns

func Debug(msg string, keysAndValues ...any) {
	S.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	S.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	S.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	S.Errorw(msg, keysAndValues...)
}
