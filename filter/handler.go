package filter

import (
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
)

// Handler forwards entries that pass its filters to the wrapped handler
// and counts the rest as dropped.
type Handler struct {
	next    handler.Handler
	filters []Filter
	stats   *handler.Stats
}

// NewHandler wraps next with filters.
func NewHandler(next handler.Handler, filters ...Filter) *Handler {
	return &Handler{next: next, filters: filters, stats: handler.NewStats()}
}

// Unwrap returns the wrapped handler.
func (h *Handler) Unwrap() handler.Handler { return h.next }

// Handle implements handler.Handler.
func (h *Handler) Handle(entry *core.Entry) error {
	if !Allows(h.filters, entry) {
		h.stats.IncrementDropped(entry.Level)
		return nil
	}
	return h.next.Handle(entry)
}

// SetFormatter passes f to the wrapped handler when it accepts one.
func (h *Handler) SetFormatter(f formatter.Formatter) {
	if fh, ok := h.next.(handler.Formattable); ok {
		fh.SetFormatter(f)
	}
}

// Flush flushes the wrapped handler when it buffers output.
func (h *Handler) Flush() error {
	if fl, ok := h.next.(handler.Flusher); ok {
		return fl.Flush()
	}
	return nil
}

// Stats merges the dropped counts with the wrapped handler's statistics.
func (h *Handler) Stats() handler.Snapshot {
	snap := h.stats.GetSnapshot()
	if sp, ok := h.next.(handler.StatsProvider); ok {
		snap = snap.Add(sp.Stats())
	}
	return snap
}

// Close closes the wrapped handler.
func (h *Handler) Close() error {
	return h.next.Close()
}
