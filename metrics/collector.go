// Package metrics exports handler statistics to Prometheus.
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/tracelog/config"
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/handler"
)

// OpenFiles is implemented by handlers that keep a variable number of
// files open, such as the multifile router.
type OpenFiles interface {
	Len() int
}

// openFiles finds OpenFiles on h or on a handler it wraps.
func openFiles(h interface{}) (OpenFiles, bool) {
	for h != nil {
		if of, ok := h.(OpenFiles); ok {
			return of, true
		}
		u, ok := h.(interface{ Unwrap() handler.Handler })
		if !ok {
			return nil, false
		}
		h = u.Unwrap()
	}
	return nil, false
}

// Collector reads the Stats of registered handlers on every scrape.
type Collector struct {
	mu       sync.RWMutex
	handlers map[string]handler.StatsProvider

	processed *prometheus.Desc
	errors    *prometheus.Desc
	dropped   *prometheus.Desc
	openFiles *prometheus.Desc
}

// NewCollector creates a Collector whose metric names start with
// namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		handlers: make(map[string]handler.StatsProvider),
		processed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "handler", "records_processed_total"),
			"Records written by the handler",
			[]string{"handler"}, nil,
		),
		errors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "handler", "write_errors_total"),
			"Records the handler failed to format or write",
			[]string{"handler"}, nil,
		),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "handler", "records_dropped_total"),
			"Records rejected by the handler's filters",
			[]string{"handler", "level"}, nil,
		),
		openFiles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "handler", "open_files"),
			"Files currently held open by a routing handler",
			[]string{"handler"}, nil,
		),
	}
}

// Register adds a handler under name, replacing any earlier one.
func (c *Collector) Register(name string, h handler.StatsProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = h
}

// Unregister removes the handler registered under name.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, name)
}

// RegisterSetup registers every handler of s that reports statistics.
func (c *Collector) RegisterSetup(s *config.Setup) {
	for _, name := range s.HandlerNames() {
		if sp, ok := s.Handlers[name].(handler.StatsProvider); ok {
			c.Register(name, sp)
		}
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.processed
	ch <- c.errors
	ch <- c.dropped
	ch <- c.openFiles
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, h := range c.handlers {
		snap := h.Stats()
		ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(snap.ProcessedTotal), name)
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(snap.ErrorsTotal), name)

		levels := make([]core.Level, 0, len(snap.DroppedTotal))
		for l, n := range snap.DroppedTotal {
			if n > 0 {
				levels = append(levels, l)
			}
		}
		sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
		for _, l := range levels {
			ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue,
				float64(snap.DroppedTotal[l]), name, strings.ToLower(l.String()))
		}

		if of, ok := openFiles(h); ok {
			ch <- prometheus.MustNewConstMetric(c.openFiles, prometheus.GaugeValue, float64(of.Len()), name)
		}
	}
}
