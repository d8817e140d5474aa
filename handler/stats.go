package handler

import (
	"sync/atomic"

	"github.com/philipp01105/tracelog/core"
)

// Stats tracks handler statistics. Dropped counts entries rejected by a
// filter before reaching the output; Errors counts failed writes.
type Stats struct {
	dropped   [core.PanicLevel - core.TraceLevel + 1]atomic.Uint64
	processed atomic.Uint64
	errors    atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

func levelIndex(level core.Level) (int, bool) {
	i := int(level - core.TraceLevel)
	return i, level >= core.TraceLevel && level <= core.PanicLevel
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	if i, ok := levelIndex(level); ok {
		s.dropped[i].Add(1)
	}
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// IncrementErrors atomically increments the write error counter
func (s *Stats) IncrementErrors() {
	s.errors.Add(1)
}

// Record counts the outcome of a single write.
func (s *Stats) Record(err error) {
	if err != nil {
		s.IncrementErrors()
		return
	}
	s.IncrementProcessed()
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if i, ok := levelIndex(level); ok {
		return s.dropped[i].Load()
	}
	return 0
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.processed.Store(0)
	s.errors.Store(0)
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	ProcessedTotal uint64
	ErrorsTotal    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		DroppedTotal:   make(map[core.Level]uint64, len(s.dropped)),
		ProcessedTotal: s.processed.Load(),
		ErrorsTotal:    s.errors.Load(),
	}
	for l := core.TraceLevel; l <= core.PanicLevel; l++ {
		snap.DroppedTotal[l] = s.GetDropped(l)
	}
	return snap
}

// Add merges other into the snapshot, used by handlers that aggregate
// children.
func (s Snapshot) Add(other Snapshot) Snapshot {
	out := Snapshot{
		DroppedTotal:   make(map[core.Level]uint64, len(s.DroppedTotal)),
		ProcessedTotal: s.ProcessedTotal + other.ProcessedTotal,
		ErrorsTotal:    s.ErrorsTotal + other.ErrorsTotal,
	}
	for l, n := range s.DroppedTotal {
		out.DroppedTotal[l] += n
	}
	for l, n := range other.DroppedTotal {
		out.DroppedTotal[l] += n
	}
	return out
}
