// Package logger provides the structured logging setup shared by cimport packages.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration.
type Config struct {
	Level     Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

// Init installs a logger built from cfg as the package default.
func Init(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
}

// Discard silences all logging. Used by tests.
func Discard() {
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the current default logger.
func Get() *slog.Logger { return defaultLogger }

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger { return defaultLogger.With(args...) }

// Debug logs a debug message.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
