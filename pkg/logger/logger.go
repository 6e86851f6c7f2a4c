// Package logger provides the structured slog-backed logging used
// throughout opentrep-go: a package-level default logger for main's
// startup sequence, plus instance loggers handed to long-lived
// components (scheduler.Scheduler, shell.Shell) that outlive a single
// request.
package logger

import (
	"os"
	"strings"

	"log/slog"
)

// Logger wraps slog.Logger with the error/level argument conventions this
// codebase's call sites use (Error/Fatal take an error first, the rest
// take free-form key/value pairs).
type Logger struct {
	logger *slog.Logger
}

// Config selects the logger's level and output encoding.
type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "json" or "text"
}

// New builds a Logger from config.
func New(config Config) *Logger {
	var level slog.Level
	switch strings.ToLower(config.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.logger.Info(msg, args...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logger.Warn(msg, args...)
}

// Error logs an error-level message. err may be nil.
func (l *Logger) Error(err error, msg string, args ...interface{}) {
	if err != nil {
		args = append(args, "error", err)
	}
	l.logger.Error(msg, args...)
}

// Fatal logs at error level and terminates the process, for startup
// failures main has no way to recover from (index won't open, SQL store
// won't connect).
func (l *Logger) Fatal(err error, msg string, args ...interface{}) {
	if err != nil {
		args = append(args, "error", err)
	}
	l.logger.Error(msg, args...)
	os.Exit(1)
}

var defaultLogger *Logger

// Init sets the default logger used by the package-level functions below.
// Called once, at the top of main, before anything else logs.
func Init(config Config) {
	defaultLogger = New(config)
}

func Info(msg string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

func Warn(msg string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

func Error(err error, msg string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(err, msg, args...)
	}
}

func Fatal(err error, msg string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Fatal(err, msg, args...)
	}
}
