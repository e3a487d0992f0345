package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// default logger instance, swapped atomically by Configure
var defaultLogger atomic.Pointer[slog.Logger]

// initializes the logger from the process environment
func init() {
	Configure(os.Getenv("ENVIRONMENT"))
}

// rebuilds the default logger for the given environment.
// called again by cmd/ after .env is loaded, since init runs before godotenv.
func Configure(env string) {
	if env == "production" {
		// production: JSON output for structured logging
		setDefault(newLogger(os.Stdout, slog.LevelInfo, true))
		return
	}

	// development: human-readable text output
	setDefault(newLogger(os.Stderr, slog.LevelDebug, false))
}

// installs a logger writing to w; used by tests to capture output
func SetOutput(w io.Writer, level slog.Level) {
	setDefault(newLogger(w, level, true))
}

func newLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func setDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

// returns the default logger instance
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// creates a logger with additional context fields
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// returns the request-scoped logger, or the default one
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return Default()
}

// adds logger to context
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// helper type for context key
type loggerKey struct{}

// convenience functions for common log levels

// logs a debug message
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// logs an info message
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// logs a warning message
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// logs an error message
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// logs an error with context
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
}

// logs a fatal error and exits (for CLI tools)
func Fatal(msg string, args ...any) {
	Default().Error(msg, args...)
	os.Exit(1)
}

// logs a fatal error with error and exits (for CLI tools)
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
	os.Exit(1)
}
