package handler

import (
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
)

// Handler defines the interface for log handlers
type Handler interface {
	// Handle processes a log entry. The entry must not be retained after
	// Handle returns; clone it if needed.
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}

// Formattable is implemented by handlers whose output formatter can be
// replaced after construction.
type Formattable interface {
	SetFormatter(f formatter.Formatter)
}

// Flusher is implemented by handlers that buffer output.
type Flusher interface {
	Flush() error
}

// StatsProvider is implemented by handlers that count their work.
type StatsProvider interface {
	Stats() Snapshot
}
