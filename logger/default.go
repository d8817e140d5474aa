package logger

import (
	"context"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
)

func newDefaultLogger() *Logger {
	// Console handler on stderr with the text format
	h := handler.NewConsoleHandler(handler.ConsoleConfig{
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})

	return NewBuilder().
		WithHandler(h).
		WithLevel(core.InfoLevel).
		Build()
}

// Default returns the default logger, which is also the root of the
// registry (see Get).
func Default() *Logger {
	return Root()
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	SetRoot(l)
}

// Package-level convenience functions using the default logger

// Trace logs a trace message using the default logger
func Trace(msg string, fields ...core.Field) {
	Default().Trace(msg, fields...)
}

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...core.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...core.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...core.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message using the default logger
func Error(msg string, fields ...core.Field) {
	Default().Error(msg, fields...)
}

// Fatal logs a fatal message using the default logger and exits the program
func Fatal(msg string, fields ...core.Field) {
	Default().Fatal(msg, fields...)
}

// Panic logs a panic message using the default logger and panics
func Panic(msg string, fields ...core.Field) {
	Default().Panic(msg, fields...)
}

// InfoContext logs an info message with the scope carried by ctx using the
// default logger
func InfoContext(ctx context.Context, msg string, fields ...core.Field) {
	Default().InfoContext(ctx, msg, fields...)
}

// ErrorContext logs an error message with the scope carried by ctx using
// the default logger
func ErrorContext(ctx context.Context, msg string, fields ...core.Field) {
	Default().ErrorContext(ctx, msg, fields...)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// Fatalf logs a formatted fatal message using the default logger and exits the program
func Fatalf(format string, args ...interface{}) {
	Default().Fatalf(format, args...)
}

// Panicf logs a formatted panic message using the default logger and panics
func Panicf(format string, args ...interface{}) {
	Default().Panicf(format, args...)
}

// With creates a new logger with additional fields
func With(fields ...core.Field) *Logger {
	return Default().With(fields...)
}
