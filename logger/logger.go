package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/filter"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/scope"
)

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

// Logger is the main logging interface (immutable)
type Logger struct {
	name          string
	handler       handler.Handler
	level         core.Level
	fields        []core.Field
	filters       []filter.Filter
	includeCaller bool
	callerSkip    int
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	name          string
	handler       handler.Handler
	level         core.Level
	fields        []core.Field
	filters       []filter.Filter
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		level:      core.InfoLevel, // Default level
		callerSkip: 3,              // Default skip for getCaller
	}
}

// WithName sets the dotted logger name
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithHandler sets the handler
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	return b
}

// WithLevel sets the log level
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFields adds default fields to all log entries
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithFilters adds filters every entry must pass
func (b *Builder) WithFilters(filters ...filter.Filter) *Builder {
	b.filters = append(b.filters, filters...)
	return b
}

// WithCaller enables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	return &Logger{
		name:          b.name,
		handler:       b.handler,
		level:         b.level,
		fields:        b.fields,
		filters:       b.filters,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}
}

func (l *Logger) clone() *Logger {
	c := *l
	return &c
}

// Name returns the logger's dotted name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level the logger emits
func (l *Logger) Level() core.Level {
	return l.level
}

// Handler returns the handler entries are sent to
func (l *Logger) Handler() handler.Handler {
	return l.handler
}

// Enabled reports whether entries at level would be emitted
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level && l.handler != nil
}

// Named returns a child logger whose name is l's name and name joined by
// a dot.
func (l *Logger) Named(name string) *Logger {
	c := l.clone()
	switch {
	case name == "":
	case l.name == "":
		c.name = name
	default:
		c.name = l.name + "." + name
	}
	return c
}

// WithName returns a copy of l with its name replaced
func (l *Logger) WithName(name string) *Logger {
	c := l.clone()
	c.name = name
	return c
}

// WithLevel returns a copy of l with a different minimum level
func (l *Logger) WithLevel(level core.Level) *Logger {
	c := l.clone()
	c.level = level
	return c
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	c := l.clone()
	c.fields = newFields
	return c
}

// WithFilters creates a new Logger with additional filters
func (l *Logger) WithFilters(filters ...filter.Filter) *Logger {
	newFilters := make([]filter.Filter, len(l.filters)+len(filters))
	copy(newFilters, l.filters)
	copy(newFilters[len(l.filters):], filters)

	c := l.clone()
	c.filters = newFilters
	return c
}

// AddCallerSkip returns a logger that reports callers skip frames further
// up the stack, for use by wrappers around the logger.
func (l *Logger) AddCallerSkip(skip int) *Logger {
	c := l.clone()
	c.callerSkip += skip
	return c
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level check optimization - exit early BEFORE any allocations
	if level < l.level {
		return
	}
	l.log(context.Background(), level, msg, fields)
}

// LogContext logs a message at the specified level. The scope context and
// any OpenTelemetry span carried by ctx are stamped onto the entry.
func (l *Logger) LogContext(ctx context.Context, level core.Level, msg string, fields ...core.Field) {
	if level < l.level {
		return
	}
	l.log(ctx, level, msg, fields)
}

// log is the internal logging method that takes a pre-allocated slice
func (l *Logger) log(ctx context.Context, level core.Level, msg string, fields []core.Field) {
	// Handler check - exit if no handler (avoid any work)
	if l.handler == nil {
		return
	}

	entry := l.newEntry(ctx, level, msg, fields)
	if l.includeCaller {
		entry.Caller = core.GetCaller(l.callerSkip)
	}
	defer core.PutEntry(entry)

	if !filter.Allows(l.filters, entry) {
		return
	}
	if err := l.handler.Handle(entry); err != nil {
		reportError(err, entry)
	}
}

// newEntry is the record factory: every entry the logger emits is built
// here, with the scope context copied in at creation.
func (l *Logger) newEntry(ctx context.Context, level core.Level, msg string, fields []core.Field) *core.Entry {
	entry := core.GetEntry()
	entry.Time = time.Now()
	entry.Level = level
	entry.LoggerName = l.name
	entry.Message = msg
	entry.Context = scope.Resolve(ctx)

	// Add logger's default fields
	if len(l.fields) > 0 {
		entry.Fields = append(entry.Fields, l.fields...)
	}

	// Add provided fields
	if len(fields) > 0 {
		entry.Fields = append(entry.Fields, fields...)
	}

	if ctx != nil {
		if sc := oteltrace.SpanContextFromContext(ctx); sc.IsValid() {
			entry.Fields = append(entry.Fields,
				core.Field{Key: "trace_id", Type: core.StringType, Str: sc.TraceID().String()},
				core.Field{Key: "span_id", Type: core.StringType, Str: sc.SpanID().String()},
			)
		}
	}
	return entry
}

// Trace logs a trace message
func (l *Logger) Trace(msg string, fields ...core.Field) {
	if core.TraceLevel < l.level {
		return
	}
	l.log(context.Background(), core.TraceLevel, msg, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(context.Background(), core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(context.Background(), core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if core.WarnLevel < l.level {
		return
	}
	l.log(context.Background(), core.WarnLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(context.Background(), core.ErrorLevel, msg, fields)
}

// Fatal logs a fatal message and exits the program with os.Exit(1)
func (l *Logger) Fatal(msg string, fields ...core.Field) {
	l.log(context.Background(), core.FatalLevel, msg, fields)
	osExit(1)
}

// Panic logs a panic message and panics
func (l *Logger) Panic(msg string, fields ...core.Field) {
	l.log(context.Background(), core.PanicLevel, msg, fields)
	panic(msg)
}

// TraceContext logs a trace message with the scope carried by ctx
func (l *Logger) TraceContext(ctx context.Context, msg string, fields ...core.Field) {
	if core.TraceLevel < l.level {
		return
	}
	l.log(ctx, core.TraceLevel, msg, fields)
}

// DebugContext logs a debug message with the scope carried by ctx
func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(ctx, core.DebugLevel, msg, fields)
}

// InfoContext logs an info message with the scope carried by ctx
func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(ctx, core.InfoLevel, msg, fields)
}

// WarnContext logs a warning message with the scope carried by ctx
func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...core.Field) {
	if core.WarnLevel < l.level {
		return
	}
	l.log(ctx, core.WarnLevel, msg, fields)
}

// ErrorContext logs an error message with the scope carried by ctx
func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...core.Field) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(ctx, core.ErrorLevel, msg, fields)
}

// Tracef logs a trace message with formatting
func (l *Logger) Tracef(format string, args ...interface{}) {
	if core.TraceLevel < l.level {
		return
	}
	l.log(context.Background(), core.TraceLevel, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(context.Background(), core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(context.Background(), core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	if core.WarnLevel < l.level {
		return
	}
	l.log(context.Background(), core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(context.Background(), core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a fatal message with formatting and exits the program with os.Exit(1)
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(context.Background(), core.FatalLevel, fmt.Sprintf(format, args...), nil)
	osExit(1)
}

// Panicf logs a panic message with formatting and panics
func (l *Logger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.log(context.Background(), core.PanicLevel, msg, nil)
	panic(msg)
}

// Close closes the logger's handler
func (l *Logger) Close() error {
	if l.handler != nil {
		return l.handler.Close()
	}
	return nil
}
