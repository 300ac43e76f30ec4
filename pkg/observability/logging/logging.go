package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	mu     sync.RWMutex
)

func init() {
	logger = newLogger(os.Getenv("DIAGROUTER_LOG_LEVEL"), os.Getenv("DIAGROUTER_LOG_FORMAT")).Sugar()
}

// newLogger builds a zap logger from level ("debug", "info", "warn", "error")
// and format ("json" or "console"). Unknown values fall back to info/console.
func newLogger(level, format string) *zap.Logger {
	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.ToLower(format) == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core, zap.AddCallerSkip(1))
}

// Init replaces the package logger. Safe to call before serving starts;
// concurrent use during replacement is protected by a read-write lock.
func Init(level, format string) {
	l := newLogger(level, format).Sugar()
	mu.Lock()
	logger = l
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }

func Infof(format string, args ...interface{}) { get().Infof(format, args...) }

func Warnf(format string, args ...interface{}) { get().Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }

// Fatalf logs at error level and exits with a non-zero status.
func Fatalf(format string, args ...interface{}) { get().Fatalf(format, args...) }

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = get().Sync()
}
