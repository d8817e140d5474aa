// Package zaphandler lets a zap.Logger write through a tracelog Handler,
// so zap records get scope context, filters and file routing.
//
//	h, _ := filehandler.New(filehandler.Config{Filename: "app.log"})
//	zl := zap.New(zaphandler.NewCore(h, core.InfoLevel))
//
// zap calls carry no context.Context, so the scope is taken from the
// calling goroutine (see scope.Enter).
package zaphandler

import (
	"path/filepath"
	"sort"

	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/scope"
)

// Core implements zapcore.Core on top of a Handler.
type Core struct {
	handler handler.Handler
	level   core.Level
	fields  []core.Field
}

var _ zapcore.Core = (*Core)(nil)

// NewCore returns a zapcore.Core that passes entries at or above level to h.
func NewCore(h handler.Handler, level core.Level) *Core {
	return &Core{handler: h, level: level}
}

// LevelFromZap maps a zap level to a core.Level. Levels below zap's debug
// level map to TraceLevel.
func LevelFromZap(l zapcore.Level) core.Level {
	switch {
	case l < zapcore.DebugLevel:
		return core.TraceLevel
	case l == zapcore.DebugLevel:
		return core.DebugLevel
	case l == zapcore.InfoLevel:
		return core.InfoLevel
	case l == zapcore.WarnLevel:
		return core.WarnLevel
	case l == zapcore.ErrorLevel, l == zapcore.DPanicLevel:
		return core.ErrorLevel
	case l == zapcore.PanicLevel:
		return core.PanicLevel
	default:
		return core.FatalLevel
	}
}

// Enabled implements zapcore.LevelEnabler.
func (c *Core) Enabled(l zapcore.Level) bool {
	return LevelFromZap(l) >= c.level
}

// With returns a Core that adds fields to every entry.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = appendZapFields(append([]core.Field(nil), c.fields...), fields)
	return &clone
}

// Check adds c to ce when the entry's level is enabled.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write converts the zap entry and hands it to the handler.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	entry := core.GetEntry()
	defer core.PutEntry(entry)

	entry.Time = ent.Time
	entry.Level = LevelFromZap(ent.Level)
	entry.LoggerName = ent.LoggerName
	entry.Message = ent.Message
	entry.Context = scope.Current()
	if ent.Caller.Defined {
		entry.Caller = core.CallerInfo{
			File:      ent.Caller.File,
			ShortFile: filepath.Base(ent.Caller.File),
			Line:      ent.Caller.Line,
			Function:  ent.Caller.Function,
			Defined:   true,
		}
	}
	entry.Fields = append(entry.Fields, c.fields...)
	entry.Fields = appendZapFields(entry.Fields, fields)
	if ent.Stack != "" {
		entry.Fields = append(entry.Fields, core.Field{Key: "stacktrace", Type: core.StringType, Str: ent.Stack})
	}

	return c.handler.Handle(entry)
}

// Sync flushes the handler when it buffers output.
func (c *Core) Sync() error {
	if f, ok := c.handler.(handler.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// appendZapFields encodes zap fields into typed fields, keeping their
// order. Object values are flattened into dotted keys.
func appendZapFields(dst []core.Field, fields []zapcore.Field) []core.Field {
	for _, f := range fields {
		enc := zapcore.NewMapObjectEncoder()
		f.AddTo(enc)
		dst = appendMap(dst, "", enc.Fields)
	}
	return dst
}

func appendMap(dst []core.Field, prefix string, m map[string]interface{}) []core.Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := m[k].(map[string]interface{}); ok {
			dst = appendMap(dst, key, nested)
			continue
		}
		dst = append(dst, core.FieldOf(key, m[k]))
	}
	return dst
}
