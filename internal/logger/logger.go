package logger

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the process-wide logger. Call once from main before anything
// else logs.
func Init() {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// InitDevelopment switches to human-readable output, used in tests.
func InitDevelopment() {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

func ensure() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

// Info logs a message with optional key-value pairs.
func Info(msg string, kv ...interface{}) {
	ensure().Infow(msg, kv...)
}

func Infof(format string, v ...interface{}) {
	ensure().Infof(format, v...)
}

func Warn(msg string, kv ...interface{}) {
	ensure().Warnw(msg, kv...)
}

func Error(msg string, kv ...interface{}) {
	ensure().Errorw(msg, kv...)
}

func Errorf(format string, v ...interface{}) {
	ensure().Errorf(format, v...)
}

func Debug(msg string, kv ...interface{}) {
	ensure().Debugw(msg, kv...)
}

func Debugf(format string, v ...interface{}) {
	ensure().Debugf(format, v...)
}

func Fatal(msg string, kv ...interface{}) {
	ensure().Fatalw(msg, kv...)
}

func Fatalf(format string, v ...interface{}) {
	ensure().Fatalf(format, v...)
}

// Sync flushes buffered entries, called on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
