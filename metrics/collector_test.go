package metrics

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/tracelog/config"
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/filter"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/handler"
	"github.com/philipp01105/tracelog/handler/multifile"
)

func entry(level core.Level, msg string, fields ...core.Field) *core.Entry {
	return &core.Entry{Level: level, Message: msg, Fields: fields}
}

func TestCollector_ConsoleAndFilter(t *testing.T) {
	var buf bytes.Buffer
	pf, err := formatter.NewPatternFormatter("{message}")
	require.NoError(t, err)
	console := handler.NewConsoleHandler(handler.ConsoleConfig{Writer: &buf, Formatter: pf})
	filtered := filter.NewHandler(console, filter.NewContextFilter("keep"))

	c := NewCollector("tracelog")
	c.Register("console", filtered)

	kept := entry(core.InfoLevel, "a")
	kept.Context = "keep"
	require.NoError(t, filtered.Handle(kept))
	require.NoError(t, filtered.Handle(entry(core.WarnLevel, "b")))
	require.NoError(t, filtered.Handle(entry(core.WarnLevel, "c")))

	expected := `
# HELP tracelog_handler_records_dropped_total Records rejected by the handler's filters
# TYPE tracelog_handler_records_dropped_total counter
tracelog_handler_records_dropped_total{handler="console",level="warn"} 2
# HELP tracelog_handler_records_processed_total Records written by the handler
# TYPE tracelog_handler_records_processed_total counter
tracelog_handler_records_processed_total{handler="console"} 1
# HELP tracelog_handler_write_errors_total Records the handler failed to format or write
# TYPE tracelog_handler_write_errors_total counter
tracelog_handler_write_errors_total{handler="console"} 0
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"tracelog_handler_records_dropped_total",
		"tracelog_handler_records_processed_total",
		"tracelog_handler_write_errors_total",
	))
}

func TestCollector_RouterOpenFiles(t *testing.T) {
	dir := t.TempDir()
	router, err := multifile.New(multifile.Config{Pattern: filepath.ToSlash(dir) + "/{user}.log"})
	require.NoError(t, err)
	defer router.Close()

	c := NewCollector("app")
	c.Register("users", router)

	require.NoError(t, router.Handle(entry(core.InfoLevel, "x", core.Field{Key: "user", Type: core.StringType, Str: "alice"})))
	require.NoError(t, router.Handle(entry(core.InfoLevel, "y", core.Field{Key: "user", Type: core.StringType, Str: "bob"})))
	assert.Error(t, router.Handle(entry(core.InfoLevel, "z")))

	expected := `
# HELP app_handler_open_files Files currently held open by a routing handler
# TYPE app_handler_open_files gauge
app_handler_open_files{handler="users"} 2
# HELP app_handler_write_errors_total Records the handler failed to format or write
# TYPE app_handler_write_errors_total counter
app_handler_write_errors_total{handler="users"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"app_handler_open_files", "app_handler_write_errors_total"))

	require.NoError(t, router.Flush())
	assert.Equal(t, 0, router.Len())
}

func TestCollector_FilteredRouterOpenFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := config.Build(&config.Config{
		Handlers: map[string]config.HandlerConfig{
			"users": {Type: "multifile", Pattern: filepath.ToSlash(dir) + "/{user}.log", Level: "INFO"},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	_, wrapped := s.Handlers["users"].(*filter.Handler)
	require.True(t, wrapped)

	c := NewCollector("app")
	c.RegisterSetup(s)

	h := s.Handlers["users"]
	require.NoError(t, h.Handle(entry(core.InfoLevel, "x", core.Field{Key: "user", Type: core.StringType, Str: "alice"})))
	require.NoError(t, h.Handle(entry(core.DebugLevel, "y", core.Field{Key: "user", Type: core.StringType, Str: "bob"})))

	expected := `
# HELP app_handler_open_files Files currently held open by a routing handler
# TYPE app_handler_open_files gauge
app_handler_open_files{handler="users"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "app_handler_open_files"))
}

func TestCollector_RegisterSetup(t *testing.T) {
	s, err := config.Build(&config.Config{
		Handlers: map[string]config.HandlerConfig{
			"err": {Type: "console"},
			"out": {Type: "console", Stream: "stdout"},
		},
	})
	require.NoError(t, err)

	c := NewCollector("")
	c.RegisterSetup(s)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	// processed and errors per handler
	assert.Equal(t, 4, testutil.CollectAndCount(c))

	c.Unregister("out")
	assert.Equal(t, 2, testutil.CollectAndCount(c))
}
