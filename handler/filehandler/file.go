package filehandler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
)

// Mode selects how the file is opened the first time.
type Mode string

const (
	// ModeAppend keeps existing content (default).
	ModeAppend Mode = "append"
	// ModeTruncate empties the file on first open. Reopens after Close
	// append.
	ModeTruncate Mode = "truncate"
)

// ParseMode accepts "append"/"a" and "truncate"/"w".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "a", "append":
		return ModeAppend, nil
	case "w", "truncate":
		return ModeTruncate, nil
	}
	return "", fmt.Errorf("unknown file mode %q", s)
}

// Config holds configuration for file handlers
type Config struct {
	// Filename is the path to the log file
	Filename string
	// Mode is the open mode (default: append)
	Mode Mode
	// Terminator is appended after each record (default: "\n").
	// Set NoTerminator to write records back to back.
	Terminator   string
	NoTerminator bool
	// Encoding is a WHATWG encoding label such as "latin1" or "utf-16le"
	// (default: utf-8)
	Encoding string
	// Errors is the policy for unencodable text (default: strict)
	Errors ErrorPolicy
	// Delay postpones opening the file until the first record
	Delay bool
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Perm is used when the file is created (default: 0644)
	Perm os.FileMode
}

func (c *Config) applyDefaults() error {
	if c.Filename == "" {
		return errors.New("filename is required")
	}
	if c.Formatter == nil {
		c.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if c.Terminator == "" && !c.NoTerminator {
		c.Terminator = handler.DefaultTerminator
	}
	if c.Perm == 0 {
		c.Perm = 0644
	}
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode
	return nil
}

// FileHandler writes formatted entries to a single file. Every record is
// written with one write call under the handler's lock, so records from
// concurrent goroutines never interleave.
//
// Close releases the file; a later Handle reopens it for appending.
type FileHandler struct {
	mu         sync.Mutex
	filename   string
	open       func(truncate bool) (io.WriteCloser, error)
	w          io.WriteCloser
	opened     bool
	truncate   bool
	formatter  formatter.Formatter
	terminator string
	codec      *codec
	buf        bytes.Buffer
	encBuf     bytes.Buffer
	stats      *handler.Stats

	// stale reports whether w no longer refers to filename and must be
	// reopened before the next write.
	stale func(w io.WriteCloser) bool
}

// New creates a file handler. Unless cfg.Delay is set the file is opened
// (and created) immediately, so permission problems surface here.
func New(cfg Config) (*FileHandler, error) {
	h, err := newFileHandler(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Delay {
		return h, nil
	}
	h.mu.Lock()
	err = h.ensureOpen()
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return h, nil
}

func newFileHandler(cfg Config) (*FileHandler, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	c, err := newCodec(cfg.Encoding, cfg.Errors)
	if err != nil {
		return nil, err
	}
	filename := filepath.Clean(cfg.Filename)
	perm := cfg.Perm
	h := &FileHandler{
		filename:   filename,
		truncate:   cfg.Mode == ModeTruncate,
		formatter:  cfg.Formatter,
		terminator: cfg.Terminator,
		codec:      c,
		stats:      handler.NewStats(),
		open: func(truncate bool) (io.WriteCloser, error) {
			return openFile(filename, truncate, perm)
		},
	}
	h.buf.Grow(256)
	return h, nil
}

func openFile(filename string, truncate bool, perm os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, err
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flag |= os.O_TRUNC
	}
	return os.OpenFile(filename, flag, perm)
}

// Filename returns the path the handler writes to.
func (h *FileHandler) Filename() string {
	return h.filename
}

// ensureOpen opens the file if needed. Callers hold h.mu.
func (h *FileHandler) ensureOpen() error {
	if h.w != nil {
		if h.stale == nil || !h.stale(h.w) {
			return nil
		}
		h.w.Close()
		h.w = nil
	}
	w, err := h.open(h.truncate && !h.opened)
	if err != nil {
		return err
	}
	h.w = w
	h.opened = true
	return nil
}

// Handle formats the entry and appends it to the file.
func (h *FileHandler) Handle(entry *core.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := formatter.FormatInto(h.formatter, entry, &h.buf); err != nil {
		h.stats.IncrementErrors()
		return err
	}
	h.buf.WriteString(h.terminator)

	data, err := h.codec.encode(&h.encBuf, h.buf.Bytes())
	if err != nil {
		h.stats.IncrementErrors()
		return err
	}
	if err := h.ensureOpen(); err != nil {
		h.stats.IncrementErrors()
		return err
	}
	_, err = h.w.Write(data)
	h.stats.Record(err)
	return err
}

// SetFormatter replaces the formatter used for subsequent records.
func (h *FileHandler) SetFormatter(f formatter.Formatter) {
	h.mu.Lock()
	h.formatter = f
	h.mu.Unlock()
}

// Flush commits written records to stable storage.
func (h *FileHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.w.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (h *FileHandler) Stats() handler.Snapshot {
	return h.stats.GetSnapshot()
}

// Close closes the underlying file. It is safe to call more than once.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.w == nil {
		return nil
	}
	err := h.w.Close()
	h.w = nil
	return err
}
