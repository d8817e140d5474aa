package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/philipp01105/tracelog/core"
)

// ErrNoMatchingFormatter is matched by *NoMatchError.
var ErrNoMatchingFormatter = errors.New("no formatter matches logger name")

// NoMatchError is returned by DispatchingFormatter when none of its
// patterns matches the entry's logger name.
type NoMatchError struct {
	LoggerName string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoMatchingFormatter, e.LoggerName)
}

// Is reports ErrNoMatchingFormatter as a match.
func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatchingFormatter }

// Route pairs a logger name pattern with the formatter used for it.
type Route struct {
	// Logger is a regular expression matched at the start of the logger name.
	Logger    string
	Formatter Formatter
}

type compiledRoute struct {
	re        *regexp.Regexp
	formatter Formatter
}

// DispatchingFormatter picks a formatter per entry from the first route
// whose pattern matches the logger name. Earlier routes shadow later ones.
// There is no fallback: an unmatched name is a configuration error and is
// returned as *NoMatchError.
type DispatchingFormatter struct {
	routes []compiledRoute
}

// NewDispatchingFormatter compiles the route patterns. Each pattern is
// anchored at the start of the name but not at the end, so "app" matches
// "app.db" while "^app\\.db$" does not match "app.db.pool".
func NewDispatchingFormatter(routes ...Route) (*DispatchingFormatter, error) {
	d := &DispatchingFormatter{routes: make([]compiledRoute, 0, len(routes))}
	for _, r := range routes {
		if r.Formatter == nil {
			return nil, fmt.Errorf("route %q: formatter is required", r.Logger)
		}
		re, err := regexp.Compile(`^(?:` + r.Logger + `)`)
		if err != nil {
			return nil, &core.PatternError{Pattern: r.Logger, Err: err}
		}
		d.routes = append(d.routes, compiledRoute{re: re, formatter: r.Formatter})
	}
	return d, nil
}

// Select returns the formatter for a logger name.
func (d *DispatchingFormatter) Select(name string) (Formatter, error) {
	for _, r := range d.routes {
		if r.re.MatchString(name) {
			return r.formatter, nil
		}
	}
	return nil, &NoMatchError{LoggerName: name}
}

// Format formats an entry with the selected formatter
func (d *DispatchingFormatter) Format(entry *core.Entry) ([]byte, error) {
	f, err := d.Select(entry.LoggerName)
	if err != nil {
		return nil, err
	}
	return f.Format(entry)
}

// FormatEntry appends the entry formatted by the selected formatter.
func (d *DispatchingFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) error {
	f, err := d.Select(entry.LoggerName)
	if err != nil {
		return err
	}
	return FormatInto(f, entry, buf)
}
