package formatter

import (
	"bytes"

	"github.com/philipp01105/tracelog/core"
)

// DefaultPattern is used by NewPatternFormatter when the format is empty.
const DefaultPattern = "{time:%Y-%m-%d %H:%M:%S} {level} {name} [{context}] {message}"

// PatternFormatter renders entries through a Template. The {now}
// placeholder resolves to the entry timestamp.
type PatternFormatter struct {
	tmpl *Template
}

// NewPatternFormatter compiles format into a formatter.
func NewPatternFormatter(format string) (*PatternFormatter, error) {
	if format == "" {
		format = DefaultPattern
	}
	tmpl, err := ParseTemplate(format)
	if err != nil {
		return nil, err
	}
	return &PatternFormatter{tmpl: tmpl}, nil
}

// Pattern returns the source format string.
func (f *PatternFormatter) Pattern() string { return f.tmpl.String() }

// Format formats an entry through the pattern
func (f *PatternFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatWith(entry, f.FormatEntry)
}

// FormatEntry appends the rendered pattern to buf.
func (f *PatternFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) error {
	return f.tmpl.Execute(buf, entry, entry.Time)
}
