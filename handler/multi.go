package handler

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
)

// MultiHandler sends log entries to multiple handlers
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler creates a new multi-handler
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Handlers returns the child handlers.
func (h *MultiHandler) Handlers() []Handler {
	return h.handlers
}

// Handle sends the entry to every child. A failing child does not stop
// the others; all errors are combined.
func (h *MultiHandler) Handle(entry *core.Entry) error {
	var err error
	for _, handler := range h.handlers {
		err = multierr.Append(err, handler.Handle(entry))
	}
	return err
}

// SetFormatter propagates f to every child that accepts a formatter.
func (h *MultiHandler) SetFormatter(f formatter.Formatter) {
	for _, handler := range h.handlers {
		if fh, ok := handler.(Formattable); ok {
			fh.SetFormatter(f)
		}
	}
}

// Flush flushes every child that buffers output.
func (h *MultiHandler) Flush() error {
	var err error
	for _, handler := range h.handlers {
		if fl, ok := handler.(Flusher); ok {
			err = multierr.Append(err, fl.Flush())
		}
	}
	return err
}

// Close closes all handlers
func (h *MultiHandler) Close() error {
	var err error
	for _, handler := range h.handlers {
		err = multierr.Append(err, handler.Close())
	}
	return err
}
