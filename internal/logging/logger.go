// Package logging provides the structured logging setup for flowtag.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// defaultLogger is the global logger instance
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Level represents a logging level.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ParseLevel converts a string to a Level.
// Returns LevelInfo if the string is not recognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// toSlogLevel converts a Level to slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// Options configures the logger.
type Options struct {
	// Level is the minimum log level to output
	Level Level
	// Output is where logs are written (default: os.Stderr)
	Output io.Writer
}

// Setup initializes the global logger with the given options.
//
// Logs go to stderr so they never interleave with result output
// written to stdout.
func Setup(opts Options) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	defaultLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: opts.Level.toSlogLevel(),
	}))
}

// SetupFromConfig initializes the logger from a log level string.
func SetupFromConfig(level string) {
	Setup(Options{Level: ParseLevel(level)})
}

// Logger returns the global logger instance.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warning logs a warning message.
func Warning(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Warningf logs a formatted warning message.
func Warningf(format string, args ...any) {
	Logger().Warn(fmt.Sprintf(format, args...))
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// WithComponent returns a logger with a component attribute.
func WithComponent(component string) *slog.Logger {
	return Logger().With("component", component)
}
