// Package logger provides the process-wide file logger.
//
// The terminal owns stdout and stderr while the UI runs, so log output goes to a
// file. Until Init is called every call is a no-op.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is the minimum severity written to the log file.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the configuration name of the level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return "warning"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// ParseLevel converts a level name to a LogLevel. Unknown names fall back to
// LevelWarning.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelWarning
	}
}

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar = zap.NewNop().Sugar()
)

// Init opens path for appending and routes all subsequent log calls to it.
// An empty path disables logging.
func Init(path string, level LogLevel) error {
	if path == "" {
		replace(nil)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level.zapLevel()),
		Development:       false,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
	}
	cfg.EncoderConfig.StacktraceKey = ""
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	replace(built)
	return nil
}

func replace(next *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		_ = base.Sync()
	}
	base = next
	if next == nil {
		sugar = zap.NewNop().Sugar()
		return
	}
	sugar = next.Sugar()
}

// Close flushes buffered entries and disables logging.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	if base != nil {
		err = base.Sync()
	}
	base = nil
	sugar = zap.NewNop().Sugar()
	return err
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warning logs a warning.
func Warning(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

// ErrorWithErr logs an error message with err attached as a field.
func ErrorWithErr(err error, format string, args ...any) {
	current().Errorw(fmt.Sprintf(format, args...), "error", err)
}
