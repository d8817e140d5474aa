package handler

import (
	"context"
	"log/slog"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/scope"
)

// SlogLevelTrace is the slog level that maps to core.TraceLevel.
const SlogLevelTrace = slog.LevelDebug - 4

// SlogHandler is an adapter that implements slog.Handler on top of a
// Handler, so code logging through log/slog gets scope context, filters
// and routing. The scope is taken from the ctx passed to the slog call,
// falling back to the goroutine-local scope.
type SlogHandler struct {
	handler Handler
	name    string
	level   core.Level
	attrs   []core.Field
	group   string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping the given
// Handler. Entries carry name as their logger name.
func NewSlogHandler(h Handler, name string, level core.Level) *SlogHandler {
	return &SlogHandler{
		handler: h,
		name:    name,
		level:   level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return SlogLevelToCore(level) >= s.level
}

// Handle converts the slog.Record into an Entry and passes it on.
func (s *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	entry := core.GetEntry()
	defer core.PutEntry(entry)

	entry.Time = record.Time
	entry.Level = SlogLevelToCore(record.Level)
	entry.LoggerName = s.name
	entry.Message = record.Message
	entry.Context = scope.Resolve(ctx)

	if len(s.attrs) > 0 {
		entry.Fields = append(entry.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = appendSlogAttr(entry.Fields, s.group, a)
		return true
	})

	return s.handler.Handle(entry)
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendSlogAttr(newAttrs, s.group, a)
	}
	c := *s
	c.attrs = newAttrs
	return &c
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	c := *s
	if s.group != "" {
		c.group = s.group + "." + name
	} else {
		c.group = name
	}
	return &c
}

// SlogLevelToCore converts a slog.Level to a core.Level.
func SlogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// appendSlogAttr converts a slog.Attr into fields, flattening groups into
// dotted keys.
func appendSlogAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return append(fields, core.Field{Key: key, Type: core.StringType, Str: a.Value.String()})
	case slog.KindInt64:
		return append(fields, core.Field{Key: key, Type: core.Int64Type, Int64: a.Value.Int64()})
	case slog.KindUint64:
		return append(fields, core.Field{Key: key, Type: core.Int64Type, Int64: int64(a.Value.Uint64())})
	case slog.KindFloat64:
		return append(fields, core.Field{Key: key, Type: core.Float64Type, Float64: a.Value.Float64()})
	case slog.KindBool:
		val := int64(0)
		if a.Value.Bool() {
			val = 1
		}
		return append(fields, core.Field{Key: key, Type: core.BoolType, Int64: val})
	case slog.KindTime:
		return append(fields, core.Field{Key: key, Type: core.TimeType, Int64: a.Value.Time().UnixNano()})
	case slog.KindDuration:
		return append(fields, core.Field{Key: key, Type: core.DurationType, Int64: int64(a.Value.Duration())})
	case slog.KindGroup:
		prefix := key
		if a.Key == "" {
			prefix = group
		}
		for _, ga := range a.Value.Group() {
			fields = appendSlogAttr(fields, prefix, ga)
		}
		return fields
	default:
		return append(fields, core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()})
	}
}
