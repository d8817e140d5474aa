package handler

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
)

// DefaultTerminator is appended after every formatted record unless a
// handler is configured otherwise.
const DefaultTerminator = "\n"

// ConsoleHandler writes formatted entries to an io.Writer (stderr by
// default). Writes are serialized, so one record is never interleaved
// with another.
type ConsoleHandler struct {
	mu         sync.Mutex
	writer     io.Writer
	formatter  formatter.Formatter
	terminator string
	buf        bytes.Buffer
	stats      *Stats
}

// ConsoleConfig holds configuration for console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stderr)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Terminator is appended after each record (default: "\n").
	// Set NoTerminator to write records back to back.
	Terminator   string
	NoTerminator bool
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.Terminator == "" && !cfg.NoTerminator {
		cfg.Terminator = DefaultTerminator
	}
	h := &ConsoleHandler{
		writer:     cfg.Writer,
		formatter:  cfg.Formatter,
		terminator: cfg.Terminator,
		stats:      NewStats(),
	}
	h.buf.Grow(256)
	return h
}

// Handle formats the entry and writes it followed by the terminator.
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := formatter.FormatInto(h.formatter, entry, &h.buf); err != nil {
		h.stats.IncrementErrors()
		return err
	}
	h.buf.WriteString(h.terminator)
	_, err := h.writer.Write(h.buf.Bytes())
	h.stats.Record(err)
	return err
}

// SetFormatter replaces the formatter.
func (h *ConsoleHandler) SetFormatter(f formatter.Formatter) {
	h.mu.Lock()
	h.formatter = f
	h.mu.Unlock()
}

// Flush syncs the writer when it is a file.
func (h *ConsoleHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.writer.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		return f.Sync()
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close is a no-op; the writer is owned by the caller.
func (h *ConsoleHandler) Close() error {
	return nil
}
