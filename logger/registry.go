package logger

import (
	"strings"
	"sync"
	"sync/atomic"
)

// The registry maps dotted logger names to configured loggers. Lookups
// fall back along the name hierarchy: "app.db.pool" uses the logger
// registered for "app.db", then "app", then the root. Names are matched
// case-insensitively, the way configuration files store them.
var registry = struct {
	sync.RWMutex
	root    *Logger
	loggers map[string]*Logger
}{
	root:    newDefaultLogger(),
	loggers: make(map[string]*Logger),
}

// generation counts registry changes so callers can cache Get results.
var generation atomic.Uint64

// Generation returns a number that changes whenever the registry is
// modified. A logger obtained from Get stays current while it is unchanged.
func Generation() uint64 {
	return generation.Load()
}

// Root returns the root logger.
func Root() *Logger {
	registry.RLock()
	defer registry.RUnlock()
	return registry.root
}

// SetRoot replaces the root logger. Its name is cleared.
func SetRoot(l *Logger) {
	if l.Name() != "" {
		l = l.WithName("")
	}
	registry.Lock()
	defer registry.Unlock()
	registry.root = l
	generation.Add(1)
}

// Register configures the logger used for name and its descendants.
func Register(name string, l *Logger) {
	registry.Lock()
	defer registry.Unlock()
	registry.loggers[strings.ToLower(name)] = l.WithName(name)
	generation.Add(1)
}

// Get returns the logger for name. Its level, handler, filters and
// fields come from the nearest registered ancestor (or the root), and
// its name is always the full requested name.
func Get(name string) *Logger {
	registry.RLock()
	defer registry.RUnlock()

	for n := strings.ToLower(name); n != ""; {
		if l, ok := registry.loggers[n]; ok {
			if l.Name() == name {
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
	return registry.root.WithName(name)
}

// Registered lists the names passed to Register, lower-cased.
func Registered() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.loggers))
	for name := range registry.loggers {
		names = append(names, name)
	}
	return names
}

// Reset removes every registered logger and restores the default root.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.root = newDefaultLogger()
	registry.loggers = make(map[string]*Logger)
	generation.Add(1)
}
