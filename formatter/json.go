package formatter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/philipp01105/tracelog/core"
)

// JSONFormatter writes one JSON object per entry:
//
//	{"time":"...","level":"TRACE","logger":"app.db","context":"request-42",
//	 "message":"-> Get","depth":0,"args":["users"]}
//
// Fields become top-level keys. A field whose key collides with one of the
// entry keys is written as "fields.<key>". Values of AnyType are encoded
// with encoding/json, so slices such as traced call arguments stay arrays.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	return &JSONFormatter{Config: cfg}
}

// Format formats an entry as JSON
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatWith(entry, f.FormatEntry)
}

var reservedJSONKeys = map[string]struct{}{
	"time": {}, "level": {}, "logger": {}, "context": {}, "message": {}, "caller": {},
}

// FormatEntry builds the JSON object for entry directly into buf.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) error {
	w := jsonObject{buf: buf}
	w.open()

	w.key("time")
	buf.WriteByte('"')
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteByte('"')

	w.str("level", entry.Level.String())
	if entry.LoggerName != "" {
		w.str("logger", entry.LoggerName)
	}
	if entry.Context != "" {
		w.str("context", entry.Context)
	}
	w.str("message", entry.Message)

	if f.IncludeCaller && entry.Caller.Defined {
		w.key("caller")
		caller := jsonObject{buf: buf}
		caller.open()
		caller.str("file", entry.Caller.ShortFile)
		caller.key("line")
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		if entry.Caller.Function != "" {
			caller.str("function", entry.Caller.Function)
		}
		caller.close()
	}

	for _, field := range entry.Fields {
		if _, clash := reservedJSONKeys[field.Key]; clash {
			w.key("fields." + field.Key)
		} else {
			w.key(field.Key)
		}
		appendJSONFieldValue(buf, field)
	}

	w.close()
	return nil
}

// jsonObject tracks the separator between members of one object.
type jsonObject struct {
	buf  *bytes.Buffer
	used bool
}

func (o *jsonObject) open()  { o.buf.WriteByte('{') }
func (o *jsonObject) close() { o.buf.WriteByte('}') }

func (o *jsonObject) key(k string) {
	if o.used {
		o.buf.WriteByte(',')
	}
	o.used = true
	appendJSONQuoted(o.buf, k)
	o.buf.WriteByte(':')
}

func (o *jsonObject) str(k, v string) {
	o.key(k)
	appendJSONQuoted(o.buf, v)
}

const hexDigits = "0123456789abcdef"

// appendJSONQuoted writes s as a quoted JSON string.
func appendJSONQuoted(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[last:i])
		last = i + 1
		switch c {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0x0f])
		}
	}
	buf.WriteString(s[last:])
	buf.WriteByte('"')
}

func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType, core.ErrorType:
		appendJSONQuoted(buf, field.Str)
	case core.IntType, core.Int64Type, core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).UTC().AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.AnyType:
		if b, err := json.Marshal(field.Any); err == nil {
			buf.Write(b)
			return
		}
		appendJSONQuoted(buf, field.StringValue())
	default:
		appendJSONQuoted(buf, field.StringValue())
	}
}
