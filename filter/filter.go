// Package filter provides predicates that decide whether a log entry is
// emitted. Filters are attached to loggers (logger.Builder.WithFilters) or
// to handlers (filter.Handler).
package filter

import (
	"regexp"
	"strings"

	"github.com/philipp01105/tracelog/core"
)

// Filter decides whether an entry passes. Implementations must not modify
// the entry.
type Filter interface {
	Allow(entry *core.Entry) bool
}

// Func adapts an ordinary function to Filter.
type Func func(entry *core.Entry) bool

// Allow calls f(entry).
func (f Func) Allow(entry *core.Entry) bool { return f(entry) }

// ContextFilter passes entries whose scope context contains a substring.
type ContextFilter struct {
	substr string
}

// NewContextFilter returns a filter matching substr anywhere in the
// entry's context.
func NewContextFilter(substr string) *ContextFilter {
	return &ContextFilter{substr: substr}
}

// Allow implements Filter.
func (f *ContextFilter) Allow(entry *core.Entry) bool {
	return strings.Contains(entry.Context, f.substr)
}

// RegexFilter passes entries whose named attribute matches a pattern
// anchored at the start of the value. The attribute is resolved with
// core.Entry.Lookup, so built-in names such as "name" or "context" work
// alongside field keys. Entries without the attribute are rejected.
type RegexFilter struct {
	field string
	re    *regexp.Regexp
}

// NewRegexFilter compiles pattern. An invalid pattern is reported as a
// *core.PatternError.
func NewRegexFilter(field, pattern string) (*RegexFilter, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, &core.PatternError{Pattern: pattern, Err: err}
	}
	return &RegexFilter{field: field, re: re}, nil
}

// MustRegexFilter is like NewRegexFilter but panics on an invalid pattern.
func MustRegexFilter(field, pattern string) *RegexFilter {
	f, err := NewRegexFilter(field, pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// Allow implements Filter.
func (f *RegexFilter) Allow(entry *core.Entry) bool {
	v, ok := entry.Lookup(f.field)
	return ok && f.re.MatchString(v)
}

// All passes an entry only when every filter does. All() passes
// everything.
func All(filters ...Filter) Filter {
	switch len(filters) {
	case 0:
		return Func(func(*core.Entry) bool { return true })
	case 1:
		return filters[0]
	}
	return Func(func(entry *core.Entry) bool {
		return Allows(filters, entry)
	})
}

// Allows reports whether entry passes every filter in fs.
func Allows(fs []Filter, entry *core.Entry) bool {
	for _, f := range fs {
		if !f.Allow(entry) {
			return false
		}
	}
	return true
}
