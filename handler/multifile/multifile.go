// Package multifile provides a handler that routes each entry to a file
// whose name is computed from the entry and the current time, for example
// one file per logger per day:
//
//	logs/{now:%Y-%m-%d}/{name}.log
//
// Per-file handlers are created on demand and cached by filename.
package multifile

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/handler/filehandler"
)

// Config holds configuration for the router.
type Config struct {
	// Pattern is the filename template, see formatter.Template.
	Pattern string
	// File is applied to every per-file handler. Its Filename and
	// Formatter are ignored.
	File filehandler.Config
	// Formatter for every per-file handler (default: TextFormatter)
	Formatter formatter.Formatter
	// Now returns the time used for {now} placeholders (default: time.Now)
	Now func() time.Time
}

// Handler routes entries to per-file handlers.
type Handler struct {
	tmpl     *formatter.Template
	fileCfg  filehandler.Config
	now      func() time.Time
	mu       sync.RWMutex
	fmt      formatter.Formatter
	handlers map[string]*filehandler.FileHandler
	stats    *handler.Stats
}

// New parses cfg.Pattern and returns a router. No file is opened until
// the first entry arrives.
func New(cfg Config) (*Handler, error) {
	tmpl, err := formatter.ParseTemplate(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		tmpl:     tmpl,
		fileCfg:  cfg.File,
		now:      cfg.Now,
		fmt:      cfg.Formatter,
		handlers: make(map[string]*filehandler.FileHandler),
		stats:    handler.NewStats(),
	}, nil
}

// Pattern returns the filename template source.
func (h *Handler) Pattern() string {
	return h.tmpl.String()
}

// Filename renders the destination path for entry at time now.
func (h *Handler) Filename(entry *core.Entry, now time.Time) (string, error) {
	name, err := h.tmpl.Render(entry, now)
	if err != nil {
		return "", err
	}
	return filepath.Clean(name), nil
}

// Handle writes entry to the file its rendered name points at, creating
// the file and its directories on first use. Writes to distinct files
// proceed in parallel; Flush waits for writes in progress.
func (h *Handler) Handle(entry *core.Entry) error {
	name, err := h.Filename(entry, h.now())
	if err != nil {
		h.stats.IncrementErrors()
		return err
	}
	for {
		h.mu.RLock()
		fh, ok := h.handlers[name]
		if ok {
			err = fh.Handle(entry)
			h.mu.RUnlock()
			h.stats.Record(err)
			return err
		}
		h.mu.RUnlock()

		if err := h.create(name); err != nil {
			h.stats.IncrementErrors()
			return err
		}
	}
}

// create opens and caches a handler for name unless one exists.
func (h *Handler) create(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.handlers[name]; ok {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	cfg := h.fileCfg
	cfg.Filename = name
	cfg.Formatter = h.fmt
	fh, err := filehandler.New(cfg)
	if err != nil {
		return err
	}
	h.handlers[name] = fh
	return nil
}

// SetFormatter replaces the formatter of every cached handler and of
// handlers created later.
func (h *Handler) SetFormatter(f formatter.Formatter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fmt = f
	for _, fh := range h.handlers {
		fh.SetFormatter(f)
	}
}

// Flush closes every cached file and empties the cache. The next entry
// for a path opens it again in append mode.
func (h *Handler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	for _, fh := range h.handlers {
		err = multierr.Append(err, fh.Close())
	}
	h.handlers = make(map[string]*filehandler.FileHandler)
	return err
}

// CloseAll is Flush under the name used when shutting down.
func (h *Handler) CloseAll() error {
	return h.Flush()
}

// Close closes all cached files. The router stays usable.
func (h *Handler) Close() error {
	return h.CloseAll()
}

// Len returns the number of cached files.
func (h *Handler) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}

// Lookup returns the cached handler for filename, if any.
func (h *Handler) Lookup(filename string) (*filehandler.FileHandler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fh, ok := h.handlers[filepath.Clean(filename)]
	return fh, ok
}

// Filenames lists the cached paths in sorted order.
func (h *Handler) Filenames() []string {
	h.mu.RLock()
	names := make([]string, 0, len(h.handlers))
	for name := range h.handlers {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Stats returns routing statistics.
func (h *Handler) Stats() handler.Snapshot {
	return h.stats.GetSnapshot()
}
