// Package logrushook forwards logrus entries to a tracelog Handler.
//
//	log := logrus.New()
//	log.AddHook(logrushook.New(h))
//
// The scope is taken from the entry's context when the caller used
// WithContext, and from the calling goroutine otherwise.
package logrushook

import (
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/scope"
)

// NameField is the logrus field whose value becomes the logger name.
const NameField = "logger"

// Hook is a logrus.Hook writing to a Handler.
type Hook struct {
	handler handler.Handler
	levels  []logrus.Level
}

// New returns a hook that forwards every level to h.
func New(h handler.Handler) *Hook {
	return &Hook{handler: h, levels: logrus.AllLevels}
}

// NewWithLevels returns a hook restricted to the given logrus levels.
func NewWithLevels(h handler.Handler, levels ...logrus.Level) *Hook {
	return &Hook{handler: h, levels: levels}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(e *logrus.Entry) error {
	entry := core.GetEntry()
	defer core.PutEntry(entry)

	entry.Time = e.Time
	entry.Level = LevelFromLogrus(e.Level)
	entry.Message = e.Message
	entry.Context = scope.Resolve(e.Context)
	if e.Caller != nil {
		entry.Caller = core.CallerInfo{
			File:      e.Caller.File,
			ShortFile: filepath.Base(e.Caller.File),
			Line:      e.Caller.Line,
			Function:  e.Caller.Function,
			Defined:   true,
		}
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == NameField {
			if name, ok := e.Data[k].(string); ok {
				entry.LoggerName = name
				continue
			}
		}
		entry.Fields = append(entry.Fields, core.FieldOf(k, e.Data[k]))
	}

	return h.handler.Handle(entry)
}

// LevelFromLogrus maps a logrus level to a core.Level.
func LevelFromLogrus(l logrus.Level) core.Level {
	switch l {
	case logrus.PanicLevel:
		return core.PanicLevel
	case logrus.FatalLevel:
		return core.FatalLevel
	case logrus.ErrorLevel:
		return core.ErrorLevel
	case logrus.WarnLevel:
		return core.WarnLevel
	case logrus.InfoLevel:
		return core.InfoLevel
	case logrus.DebugLevel:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}
