package formatter

import (
	"bytes"
	"strconv"
	"time"

	"github.com/philipp01105/tracelog/core"
)

// TextFormatter formats log entries as human-readable text:
//
//	2026-01-15T12:00:00Z [INFO] app.db [request-42] message key=value
//
// The logger name and the context bracket are omitted when empty.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatWith(entry, f.FormatEntry)
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = map[core.Level]string{
	core.TraceLevel: " [TRACE] ",
	core.DebugLevel: " [DEBUG] ",
	core.InfoLevel:  " [INFO] ",
	core.WarnLevel:  " [WARN] ",
	core.ErrorLevel: " [ERROR] ",
	core.FatalLevel: " [FATAL] ",
	core.PanicLevel: " [PANIC] ",
}

// FormatEntry appends the text form of entry to buf.
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) error {
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	if s, ok := levelBrackets[entry.Level]; ok {
		buf.WriteString(s)
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	if entry.LoggerName != "" {
		buf.WriteString(entry.LoggerName)
		buf.WriteByte(' ')
	}
	if entry.Context != "" {
		buf.WriteByte('[')
		buf.WriteString(entry.Context)
		buf.WriteString("] ")
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(entry.Caller.Line))
		buf.WriteString("] ")
	}

	buf.WriteString(entry.Message)
	writeFields(buf, entry.Fields)
	return nil
}

// writeFields appends " key=value" for every field.
func writeFields(buf *bytes.Buffer, fields []core.Field) {
	for _, field := range fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}
}
