package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/philipp01105/tracelog/handler/filehandler"
	"github.com/philipp01105/tracelog/logger"
)

// ValidationError is a single problem found by Validate.
type ValidationError struct {
	Field   string // path of the offending entry, e.g. "handlers.app.filename"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// FormatterTypes, FilterTypes and HandlerTypes list the accepted type names.
var (
	FormatterTypes = []string{"pattern", "text", "json", "dispatch"}
	FilterTypes    = []string{"context", "regex"}
	HandlerTypes   = []string{"console", "file", "watched", "rotating", "multifile"}
)

func formatterType(f FormatterConfig) string {
	if f.Type != "" {
		return strings.ToLower(f.Type)
	}
	if f.Format != "" {
		return "pattern"
	}
	return "text"
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks names, references and option values. Regular expressions
// and templates are compiled by Build, which reports them as
// *core.PatternError. The returned error is a ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	for _, name := range sortedKeys(c.Formatters) {
		f := c.Formatters[name]
		path := "formatters." + name
		typ := formatterType(f)
		switch typ {
		case "pattern":
			if f.Format == "" {
				add(path+".format", f.Format, "pattern formatter needs a format")
			}
		case "dispatch":
			if len(f.Routes) == 0 {
				add(path+".routes", f.Routes, "dispatch formatter needs at least one route")
			}
			for i, r := range f.Routes {
				rpath := fmt.Sprintf("%s.routes[%d]", path, i)
				target, ok := lookup(c.Formatters, r.Formatter)
				switch {
				case !ok:
					add(rpath+".formatter", r.Formatter, "unknown formatter")
				case formatterType(target) == "dispatch":
					add(rpath+".formatter", r.Formatter, "routes cannot point at another dispatch formatter")
				}
			}
		case "text", "json":
		default:
			add(path+".type", f.Type, "must be one of "+strings.Join(FormatterTypes, ", "))
		}
	}

	for _, name := range sortedKeys(c.Filters) {
		f := c.Filters[name]
		path := "filters." + name
		switch strings.ToLower(f.Type) {
		case "context":
			if f.Match == "" {
				add(path+".match", f.Match, "context filter needs a substring to match")
			}
		case "regex":
			if f.Field == "" {
				add(path+".field", f.Field, "regex filter needs a field")
			}
		default:
			add(path+".type", f.Type, "must be one of "+strings.Join(FilterTypes, ", "))
		}
	}

	for _, name := range sortedKeys(c.Handlers) {
		h := c.Handlers[name]
		path := "handlers." + name
		typ := strings.ToLower(h.Type)
		if !slices.Contains(HandlerTypes, typ) {
			add(path+".type", h.Type, "must be one of "+strings.Join(HandlerTypes, ", "))
			continue
		}
		if h.Formatter != "" {
			if _, ok := lookup(c.Formatters, h.Formatter); !ok {
				add(path+".formatter", h.Formatter, "unknown formatter")
			}
		}
		c.checkFilters(path, h.Filters, add)
		checkLevel(path, h.Level, add)

		switch typ {
		case "console":
			switch strings.ToLower(h.Stream) {
			case "", "stderr", "stdout":
			default:
				add(path+".stream", h.Stream, "must be stderr or stdout")
			}
			continue
		case "multifile":
			if h.Pattern == "" {
				add(path+".pattern", h.Pattern, "multifile handler needs a pattern")
			}
		default:
			if h.Filename == "" {
				add(path+".filename", h.Filename, "file handlers need a filename")
			}
		}
		if _, err := filehandler.ParseMode(h.Mode); err != nil {
			add(path+".mode", h.Mode, "must be append or truncate")
		}
		switch filehandler.ErrorPolicy(strings.ToLower(h.Errors)) {
		case "", filehandler.Strict, filehandler.Replace, filehandler.Ignore:
		default:
			add(path+".errors", h.Errors, "must be strict, replace or ignore")
		}
		if h.MaxSizeMB < 0 || h.MaxBackups < 0 || h.MaxAge < 0 {
			add(path, name, "rotation limits cannot be negative")
		}
	}

	c.checkLogger("root", c.Root, add)
	for _, name := range sortedKeys(c.Loggers) {
		c.checkLogger("loggers."+name, c.Loggers[name], add)
	}
	checkLevel("tracing", c.Tracing.Level, add)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) checkLogger(path string, l LoggerConfig, add func(string, any, string)) {
	checkLevel(path, l.Level, add)
	c.checkFilters(path, l.Filters, add)
	for _, h := range l.Handlers {
		if _, ok := lookup(c.Handlers, h); !ok {
			add(path+".handlers", h, "unknown handler")
		}
	}
}

func (c *Config) checkFilters(path string, names []string, add func(string, any, string)) {
	for _, f := range names {
		if _, ok := lookup(c.Filters, f); !ok {
			add(path+".filters", f, "unknown filter")
		}
	}
}

func checkLevel(path, level string, add func(string, any, string)) {
	if level == "" {
		return
	}
	if _, ok := logger.LookupLevel(level); !ok {
		add(path+".level", level, "unknown level")
	}
}
