// Package handlertest provides a handler that records entries for
// assertions in tests.
package handlertest

import (
	"sync"

	"github.com/philipp01105/tracelog/core"
)

// Recorder keeps a copy of every entry it handles.
type Recorder struct {
	mu      sync.Mutex
	entries []*core.Entry
	closed  bool
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Handle stores a clone of entry.
func (r *Recorder) Handle(entry *core.Entry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry.Clone())
	r.mu.Unlock()
	return nil
}

// Close marks the recorder closed. Entries are kept.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Entries returns the recorded entries in arrival order.
func (r *Recorder) Entries() []*core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the message of every recorded entry.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset discards recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
