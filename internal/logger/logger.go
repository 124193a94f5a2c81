// Package logger provides leveled diagnostic logging for textpipe.
// Messages go to stderr through a slog text handler. Only warnings are
// shown until verbose mode is enabled with --verbose or TEXTPIPE_LOG_LEVEL.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel names the environment variable read by Configure.
const EnvLevel = "TEXTPIPE_LOG_LEVEL"

var (
	mu    sync.RWMutex
	level = new(slog.LevelVar)
	log   = newLogger(os.Stderr)
)

func init() {
	level.Set(slog.LevelWarn)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Configure sets the level from TEXTPIPE_LOG_LEVEL (DEBUG, INFO, WARN or
// ERROR). Unknown or empty values leave the level unchanged.
func Configure() {
	switch strings.ToUpper(os.Getenv(EnvLevel)) {
	case "DEBUG":
		level.Set(slog.LevelDebug)
	case "INFO":
		level.Set(slog.LevelInfo)
	case "WARN":
		level.Set(slog.LevelWarn)
	case "ERROR":
		level.Set(slog.LevelError)
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetVerbose enables debug output, or restores the warning threshold.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelWarn)
}

// IsVerbose returns true if debug messages are written.
func IsVerbose() bool {
	return level.Level() <= slog.LevelDebug
}

// SetOutput sets the writer for log output.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Section marks the start of a pipeline stage in debug output.
func Section(name string) {
	Logger().Debug("stage", "name", name)
}
