package trace

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/logger"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled turns tracing on or off for functions wrapped afterwards.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether newly wrapped functions are traced.
func Enabled() bool {
	return enabled.Load()
}

var appName atomic.Pointer[string]

// SetApp sets the application name that prefixes the logger names of
// Tracers created by ForCaller with an empty app.
func SetApp(name string) {
	appName.Store(&name)
}

// App returns the name set by SetApp, or "".
func App() string {
	if p := appName.Load(); p != nil {
		return *p
	}
	return ""
}

type depthKey struct{}

// Depth returns the nesting depth carried by ctx.
func Depth(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// WithDepth returns a copy of ctx carrying depth d.
func WithDepth(ctx context.Context, d int) context.Context {
	return context.WithValue(ctx, depthKey{}, d)
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithLevel sets the level of entry, exit and item records (default:
// TraceLevel). Errors are always logged at ErrorLevel.
func WithLevel(level core.Level) Option {
	return func(t *Tracer) { t.level = level }
}

// WithIgnore exempts the named functions from wrapping.
func WithIgnore(names ...string) Option {
	return func(t *Tracer) {
		for _, n := range names {
			t.ignore[n] = struct{}{}
		}
	}
}

// Tracer holds the logger and options shared by the functions it wraps.
type Tracer struct {
	name   string
	pkg    string
	useApp bool
	fixed  *resolved
	cached atomic.Pointer[resolved]
	level  core.Level
	ignore map[string]struct{}
}

// maxSkip is the largest number of tracing frames between the caller of a
// traced function and a log call.
const maxSkip = 3

type resolved struct {
	gen  uint64
	name string
	log  *logger.Logger
	// skip[n] reports callers n frames further up than log does
	skip [maxSkip + 1]*logger.Logger
}

func newResolved(gen uint64, name string, l *logger.Logger) *resolved {
	r := &resolved{gen: gen, name: name, log: l}
	for n := range r.skip {
		r.skip[n] = l.AddCallerSkip(n)
	}
	return r
}

func newTracer(opts []Option) *Tracer {
	t := &Tracer{level: core.TraceLevel, ignore: make(map[string]struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// New returns a Tracer that reports to l.
func New(l *logger.Logger, opts ...Option) *Tracer {
	t := newTracer(opts)
	t.fixed = newResolved(0, l.Name(), l)
	t.name = l.Name()
	return t
}

// ForCaller returns a Tracer that reports to the registry logger named
// after app and the calling package, for example "shop.internal.store".
// An empty app stands for the name set with SetApp at the time records
// are written, so package-level Tracers pick up the configured app. The
// logger is looked up again only when the registry or the app changes.
func ForCaller(app string, opts ...Option) *Tracer {
	t := newTracer(opts)
	pc, _, _, _ := runtime.Caller(1)
	t.pkg = callerPackage(pc)
	t.name = joinName(app, t.pkg)
	t.useApp = app == ""
	return t
}

// Bind returns a Tracer with t's options that reports to l.
func (t *Tracer) Bind(l *logger.Logger) *Tracer {
	b := &Tracer{
		name:   l.Name(),
		fixed:  newResolved(0, l.Name(), l),
		level:  t.level,
		ignore: t.ignore,
	}
	return b
}

// Name returns the name of the logger the Tracer reports to.
func (t *Tracer) Name() string {
	if t.useApp {
		return joinName(App(), t.pkg)
	}
	return t.name
}

// Logger returns the logger records are written to.
func (t *Tracer) Logger() *logger.Logger {
	return t.resolve().log
}

func (t *Tracer) resolve() *resolved {
	if t.fixed != nil {
		return t.fixed
	}
	gen, name := logger.Generation(), t.Name()
	if r := t.cached.Load(); r != nil && r.gen == gen && r.name == name {
		return r
	}
	r := newResolved(gen, name, logger.Get(name))
	t.cached.Store(r)
	return r
}

// Ignores reports whether name was exempted with WithIgnore.
func (t *Tracer) Ignores(name string) bool {
	_, ok := t.ignore[name]
	return ok
}

// wraps reports whether a function called name should be wrapped now.
func (t *Tracer) wraps(name string) bool {
	return t != nil && Enabled() && !t.Ignores(name)
}

// Traceable is implemented by values that carry their own Tracer, such as
// a service holding a logger configured for it.
type Traceable interface {
	Tracer() *Tracer
}

// Of returns v's Tracer when v is Traceable and has one, else fallback.
func Of(v interface{}, fallback *Tracer) *Tracer {
	if tv, ok := v.(Traceable); ok {
		if t := tv.Tracer(); t != nil {
			return t
		}
	}
	return fallback
}

// package path of a function -> logger name suffix, shared by all Tracers
var packageNames sync.Map

func callerPackage(pc uintptr) string {
	if v, ok := packageNames.Load(pc); ok {
		return v.(string)
	}
	var name string
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = dottedPackage(core.PackagePath(fn.Name()), mainModule())
	}
	packageNames.Store(pc, name)
	return name
}

// dottedPackage turns an import path into a dotted logger name relative
// to the main module: "example.com/shop/internal/store" becomes
// "internal.store" inside module "example.com/shop".
func dottedPackage(pkg, module string) string {
	switch {
	case module != "" && pkg == module:
		return path.Base(pkg)
	case module != "" && strings.HasPrefix(pkg, module+"/"):
		pkg = strings.TrimPrefix(pkg, module+"/")
	}
	return strings.ReplaceAll(pkg, "/", ".")
}

var mainModule = sync.OnceValue(func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Path
	}
	return ""
})

func joinName(app, pkg string) string {
	switch {
	case app == "":
		return pkg
	case pkg == "":
		return app
	}
	return app + "." + pkg
}

// repr renders a value for exit records.
func repr(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return strconv.Quote(x)
	}
	return fmt.Sprintf("%+v", v)
}
