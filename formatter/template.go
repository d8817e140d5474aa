package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/philipp01105/tracelog/core"
)

// MissingFieldError is returned when a template references an attribute
// the entry does not carry.
type MissingFieldError struct {
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template field %q not present in entry", e.Name)
}

// Template renders entries through a format string made of literal text
// and placeholders:
//
//	{name}          entry attribute or field, see core.Entry.Lookup
//	{now:%Y/%m}     current wall clock, strftime spec
//	{time:%H:%M:%S} entry timestamp, strftime spec
//	{status:%05d}   field rendered with a fmt verb
//	{fields}        every field as key=value separated by spaces
//	{caller}        file:line when caller information was captured
//
// "{{" and "}}" produce literal braces. A Template is immutable and safe
// for concurrent use.
type Template struct {
	raw  string
	segs []segment
}

type segment struct {
	literal string
	name    string
	spec    string
	clock   *strftime.Strftime
}

// ParseTemplate compiles s. Malformed placeholders and invalid strftime
// specs for the time placeholders are reported as *core.PatternError.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segs = append(t.segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '}':
			return nil, &core.PatternError{Pattern: s, Err: fmt.Errorf("single '}' at offset %d", i)}
		case c == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, &core.PatternError{Pattern: s, Err: fmt.Errorf("unclosed '{' at offset %d", i)}
			}
			seg, err := parsePlaceholder(s[i+1 : i+end])
			if err != nil {
				return nil, &core.PatternError{Pattern: s, Err: err}
			}
			flush()
			t.segs = append(t.segs, seg)
			i += end
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

func parsePlaceholder(body string) (segment, error) {
	name, spec, _ := strings.Cut(body, ":")
	if name == "" {
		return segment{}, fmt.Errorf("empty placeholder")
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return segment{}, fmt.Errorf("invalid placeholder name %q", name)
		}
	}
	seg := segment{name: name, spec: spec}
	if spec == "" {
		return seg, nil
	}
	clock, err := strftime.New(spec)
	switch {
	case err == nil:
		seg.clock = clock
	case name == "now" || name == "time":
		return segment{}, fmt.Errorf("placeholder %q: %w", name, err)
	}
	return seg, nil
}

// String returns the source format string.
func (t *Template) String() string { return t.raw }

// Names lists the placeholder names in order of appearance.
func (t *Template) Names() []string {
	var names []string
	for _, seg := range t.segs {
		if seg.name != "" {
			names = append(names, seg.name)
		}
	}
	return names
}

// Render executes the template into a new string.
func (t *Template) Render(entry *core.Entry, now time.Time) (string, error) {
	buf := getBuffer()
	defer putBuffer(buf)
	if err := t.Execute(buf, entry, now); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Execute appends the rendered template to buf. now backs the {now}
// placeholder.
func (t *Template) Execute(buf *bytes.Buffer, entry *core.Entry, now time.Time) error {
	for i := range t.segs {
		seg := &t.segs[i]
		if seg.name == "" {
			buf.WriteString(seg.literal)
			continue
		}
		if err := seg.execute(buf, entry, now); err != nil {
			return err
		}
	}
	return nil
}

func (seg *segment) execute(buf *bytes.Buffer, entry *core.Entry, now time.Time) error {
	switch seg.name {
	case "now":
		return seg.writeTime(buf, now)
	case "time":
		return seg.writeTime(buf, entry.Time)
	case "fields":
		for i, f := range entry.Fields {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(f.Key)
			buf.WriteByte('=')
			buf.WriteString(f.StringValue())
		}
		return nil
	case "caller":
		if entry.Caller.Defined {
			buf.WriteString(entry.Caller.ShortFile)
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(entry.Caller.Line))
		}
		return nil
	case "name", "message", "level", "context":
		v, _ := entry.Lookup(seg.name)
		seg.writeValue(buf, v, v)
		return nil
	}

	f, ok := entry.Field(seg.name)
	if !ok {
		return &MissingFieldError{Name: seg.name}
	}
	if f.Type == core.TimeType {
		return seg.writeTime(buf, time.Unix(0, f.Int64))
	}
	seg.writeValue(buf, f.StringValue(), f.Value())
	return nil
}

func (seg *segment) writeTime(buf *bytes.Buffer, t time.Time) error {
	switch {
	case seg.clock != nil:
		buf.WriteString(seg.clock.FormatString(t))
	case seg.spec != "":
		s, err := strftime.Format(seg.spec, t)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	default:
		buf.Write(t.AppendFormat(buf.AvailableBuffer(), time.RFC3339))
	}
	return nil
}

func (seg *segment) writeValue(buf *bytes.Buffer, s string, v interface{}) {
	if seg.spec == "" {
		buf.WriteString(s)
		return
	}
	fmt.Fprintf(buf, seg.spec, v)
}
