package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/filter"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/handler/filehandler"
	"github.com/philipp01105/tracelog/handler/multifile"
	"github.com/philipp01105/tracelog/logger"
	"github.com/philipp01105/tracelog/trace"
)

// Setup holds everything built from a Config. Handlers are shared by the
// loggers that reference them and are owned by the Setup.
type Setup struct {
	Config     *Config
	Formatters map[string]formatter.Formatter
	Filters    map[string]filter.Filter
	Handlers   map[string]handler.Handler
	Loggers    map[string]*logger.Logger
	Root       *logger.Logger

	closed bool
}

// Build validates cfg and constructs its formatters, filters, handlers and
// loggers. Invalid regular expressions and templates are reported here
// with errors matching core.ErrInvalidPattern. Handlers opened before a
// failure are closed again.
func Build(cfg *Config) (*Setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Setup{
		Config:     cfg,
		Formatters: make(map[string]formatter.Formatter, len(cfg.Formatters)),
		Filters:    make(map[string]filter.Filter, len(cfg.Filters)),
		Handlers:   make(map[string]handler.Handler, len(cfg.Handlers)),
		Loggers:    make(map[string]*logger.Logger, len(cfg.Loggers)),
	}
	if err := s.build(); err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	return s, nil
}

func (s *Setup) build() error {
	cfg := s.Config

	// dispatch formatters refer to the others, so they go second
	for _, dispatch := range []bool{false, true} {
		for _, name := range sortedKeys(cfg.Formatters) {
			fc := cfg.Formatters[name]
			if (formatterType(fc) == "dispatch") != dispatch {
				continue
			}
			f, err := s.buildFormatter(fc)
			if err != nil {
				return errors.Wrapf(err, "formatter %q", name)
			}
			s.Formatters[name] = f
		}
	}

	for _, name := range sortedKeys(cfg.Filters) {
		f, err := buildFilter(cfg.Filters[name])
		if err != nil {
			return errors.Wrapf(err, "filter %q", name)
		}
		s.Filters[name] = f
	}

	for _, name := range sortedKeys(cfg.Handlers) {
		h, err := s.buildHandler(cfg.Handlers[name])
		if err != nil {
			return errors.Wrapf(err, "handler %q", name)
		}
		s.Handlers[name] = h
	}

	rootLevel := logger.InfoLevel
	if cfg.Root.Level != "" {
		rootLevel = logger.ParseLevel(cfg.Root.Level)
	}
	s.Root = s.buildLogger("", cfg.Root, rootLevel, nil)
	// sorted order builds every ancestor before its descendants
	for _, name := range sortedKeys(cfg.Loggers) {
		s.Loggers[name] = s.buildLogger(name, cfg.Loggers[name], rootLevel, s.parent(name))
	}
	return nil
}

// parent returns the logger built for the nearest configured ancestor of
// name, or the root.
func (s *Setup) parent(name string) *logger.Logger {
	for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name, '.') {
		name = name[:i]
		if l, ok := lookup(s.Loggers, name); ok {
			return l
		}
	}
	return s.Root
}

func (s *Setup) buildFormatter(fc FormatterConfig) (formatter.Formatter, error) {
	opts := formatter.Config{IncludeCaller: fc.IncludeCaller, TimestampFormat: fc.TimestampFormat}
	switch formatterType(fc) {
	case "pattern":
		return formatter.NewPatternFormatter(fc.Format)
	case "json":
		return formatter.NewJSONFormatter(opts), nil
	case "dispatch":
		routes := make([]formatter.Route, 0, len(fc.Routes))
		for _, r := range fc.Routes {
			f, _ := lookup(s.Formatters, r.Formatter)
			routes = append(routes, formatter.Route{Logger: r.Logger, Formatter: f})
		}
		return formatter.NewDispatchingFormatter(routes...)
	default:
		return formatter.NewTextFormatter(opts), nil
	}
}

func buildFilter(fc FilterConfig) (filter.Filter, error) {
	if strings.ToLower(fc.Type) == "regex" {
		return filter.NewRegexFilter(fc.Field, fc.Pattern)
	}
	return filter.NewContextFilter(fc.Match), nil
}

func (s *Setup) filters(names []string) []filter.Filter {
	fs := make([]filter.Filter, 0, len(names))
	for _, n := range names {
		f, _ := lookup(s.Filters, n)
		fs = append(fs, f)
	}
	return fs
}

func (s *Setup) buildHandler(hc HandlerConfig) (handler.Handler, error) {
	var f formatter.Formatter
	if hc.Formatter != "" {
		f, _ = lookup(s.Formatters, hc.Formatter)
	}

	fileCfg := filehandler.Config{
		Filename:  hc.Filename,
		Mode:      filehandler.Mode(hc.Mode),
		Encoding:  hc.Encoding,
		Errors:    filehandler.ErrorPolicy(strings.ToLower(hc.Errors)),
		Delay:     hc.Delay,
		Formatter: f,
	}
	if hc.Terminator != nil {
		fileCfg.Terminator = *hc.Terminator
		fileCfg.NoTerminator = *hc.Terminator == ""
	}

	var (
		h   handler.Handler
		err error
	)
	switch strings.ToLower(hc.Type) {
	case "console":
		var w io.Writer = os.Stderr
		if strings.ToLower(hc.Stream) == "stdout" {
			w = os.Stdout
		}
		h = handler.NewConsoleHandler(handler.ConsoleConfig{
			Writer:       w,
			Formatter:    f,
			Terminator:   fileCfg.Terminator,
			NoTerminator: fileCfg.NoTerminator,
		})
	case "file":
		h, err = filehandler.New(fileCfg)
	case "watched":
		h, err = filehandler.NewWatched(fileCfg)
	case "rotating":
		h, err = filehandler.NewRotating(filehandler.RotatingConfig{
			Config:     fileCfg,
			MaxSizeMB:  hc.MaxSizeMB,
			MaxAge:     hc.MaxAge,
			MaxBackups: hc.MaxBackups,
			LocalTime:  hc.LocalTime,
			Compress:   hc.Compress,
		})
	case "multifile":
		h, err = multifile.New(multifile.Config{
			Pattern:   hc.Pattern,
			File:      fileCfg,
			Formatter: f,
		})
	}
	if err != nil {
		return nil, err
	}

	fs := s.filters(hc.Filters)
	if hc.Level != "" {
		fs = append(fs, levelFilter(logger.ParseLevel(hc.Level)))
	}
	if len(fs) > 0 {
		h = filter.NewHandler(h, fs...)
	}
	return h, nil
}

func levelFilter(min core.Level) filter.Filter {
	return filter.Func(func(entry *core.Entry) bool { return entry.Level >= min })
}

// buildLogger builds the logger for name. A logger without handlers sends
// its records to parent's handler, and one without a level takes parent's.
func (s *Setup) buildLogger(name string, lc LoggerConfig, rootLevel core.Level, parent *logger.Logger) *logger.Logger {
	level := rootLevel
	switch {
	case lc.Level != "":
		level = logger.ParseLevel(lc.Level)
	case parent != nil:
		level = parent.Level()
	}

	b := logger.NewBuilder().
		WithName(name).
		WithLevel(level).
		WithFilters(s.filters(lc.Filters)...).
		WithCaller(lc.Caller)

	switch len(lc.Handlers) {
	case 0:
		if parent != nil {
			b = b.WithHandler(parent.Handler())
		}
	case 1:
		h, _ := lookup(s.Handlers, lc.Handlers[0])
		b = b.WithHandler(h)
	default:
		hs := make([]handler.Handler, 0, len(lc.Handlers))
		for _, n := range lc.Handlers {
			h, _ := lookup(s.Handlers, n)
			hs = append(hs, h)
		}
		b = b.WithHandler(handler.NewMultiHandler(hs...))
	}
	return b.Build()
}

// Install makes the Setup's loggers the process-wide registry and applies
// the tracing switch and the app name used by trace.ForCaller. Previously registered loggers are dropped.
func (s *Setup) Install() {
	logger.Reset()
	for name, l := range s.Loggers {
		logger.Register(name, l)
	}
	logger.SetRoot(s.Root)
	trace.SetEnabled(s.Config.Tracing.Enabled)
	trace.SetApp(s.Config.App)
}

// TraceOptions returns the tracer options from the tracing section.
func (s *Setup) TraceOptions() []trace.Option {
	var opts []trace.Option
	if s.Config.Tracing.Level != "" {
		opts = append(opts, trace.WithLevel(logger.ParseLevel(s.Config.Tracing.Level)))
	}
	if len(s.Config.Tracing.Ignore) > 0 {
		opts = append(opts, trace.WithIgnore(s.Config.Tracing.Ignore...))
	}
	return opts
}

// Logger returns the configured logger for name, falling back like the
// registry does.
func (s *Setup) Logger(name string) *logger.Logger {
	for n := name; n != ""; {
		if l, ok := lookup(s.Loggers, n); ok {
			if n == name {
				return l
			}
			return l.WithName(name)
		}
		i := strings.LastIndexByte(n, '.')
		if i < 0 {
			break
		}
		n = n[:i]
	}
	if name == "" {
		return s.Root
	}
	return s.Root.WithName(name)
}

// HandlerNames and LoggerNames list the configured names in order.
func (s *Setup) HandlerNames() []string { return sortedKeys(s.Handlers) }

func (s *Setup) LoggerNames() []string { return sortedKeys(s.Loggers) }

// Flush flushes every handler that buffers output.
func (s *Setup) Flush() error {
	var err error
	for _, name := range sortedKeys(s.Handlers) {
		if f, ok := s.Handlers[name].(handler.Flusher); ok {
			err = multierr.Append(err, errors.Wrapf(f.Flush(), "flush handler %q", name))
		}
	}
	return err
}

// Close closes every handler once.
func (s *Setup) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	for _, name := range sortedKeys(s.Handlers) {
		err = multierr.Append(err, errors.Wrapf(s.Handlers[name].Close(), "close handler %q", name))
	}
	return err
}
