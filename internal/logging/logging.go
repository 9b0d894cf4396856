// Package logging provides the zap-backed logger shared by all linecheck components.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level names accepted by SetLevel and the --log-level flag.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
	EncodeName:     zapcore.FullNameEncoder,
}

// Logs go to stderr; stdout carries command output.
var base = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	),
	zap.AddCaller(),
).Sugar()

// Default returns the root logger.
func Default() *zap.SugaredLogger {
	return base
}

// Named returns a child of the root logger tagged with the component name.
func Named(component string) *zap.SugaredLogger {
	return base.Named(component)
}

// OrNamed returns l when set, otherwise a named child of the root logger.
func OrNamed(l *zap.SugaredLogger, component string) *zap.SugaredLogger {
	if l != nil {
		return l
	}
	return Named(component)
}

// SetLevel changes the level of every logger derived from Default.
// Unknown names fall back to info.
func SetLevel(name string) {
	level.SetLevel(ParseLevel(name))
}

// ParseLevel maps a level name onto a zap level.
func ParseLevel(name string) zapcore.Level {
	switch name {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes buffered log entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = base.Sync()
}
