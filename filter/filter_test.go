package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/handler/handlertest"
)

func withContext(ctx string) *core.Entry {
	return &core.Entry{Level: core.InfoLevel, LoggerName: "app", Message: "m", Context: ctx}
}

func withField(key, value string) *core.Entry {
	return &core.Entry{
		Level:      core.InfoLevel,
		LoggerName: "app",
		Fields:     []core.Field{{Key: key, Type: core.StringType, Str: value}},
	}
}

func TestContextFilter(t *testing.T) {
	f := NewContextFilter("request-42")

	assert.True(t, f.Allow(withContext("server request-42 handler")))
	assert.False(t, f.Allow(withContext("server request-43 handler")))
	assert.False(t, f.Allow(withContext("")))
}

func TestContextFilter_EmptySubstringPassesAll(t *testing.T) {
	f := NewContextFilter("")
	assert.True(t, f.Allow(withContext("")))
	assert.True(t, f.Allow(withContext("anything")))
}

func TestRegexFilter(t *testing.T) {
	f, err := NewRegexFilter("user", `al(ice|an)`)
	require.NoError(t, err)

	assert.True(t, f.Allow(withField("user", "alice")))
	assert.True(t, f.Allow(withField("user", "alan.smith")))
	assert.False(t, f.Allow(withField("user", "malice")), "pattern is anchored at the start")
	assert.False(t, f.Allow(withField("other", "alice")), "missing field is rejected")
}

func TestRegexFilter_BuiltinAttributes(t *testing.T) {
	f, err := NewRegexFilter("name", `app\.db`)
	require.NoError(t, err)

	e := withContext("")
	e.LoggerName = "app.db.pool"
	assert.True(t, f.Allow(e))
	e.LoggerName = "app.web"
	assert.False(t, f.Allow(e))
}

func TestRegexFilter_AlternationAnchored(t *testing.T) {
	// Without grouping the anchor would bind only to the first branch.
	f, err := NewRegexFilter("user", `bob|carol`)
	require.NoError(t, err)
	assert.False(t, f.Allow(withField("user", "xcarol")))
	assert.True(t, f.Allow(withField("user", "carol")))
}

func TestRegexFilter_InvalidPattern(t *testing.T) {
	_, err := NewRegexFilter("user", `(unclosed`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidPattern))

	var pe *core.PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, `(unclosed`, pe.Pattern)

	assert.Panics(t, func() { MustRegexFilter("user", `[`) })
}

func TestAll(t *testing.T) {
	ctx := NewContextFilter("req")
	user := MustRegexFilter("user", "alice")

	e := withField("user", "alice")
	e.Context = "req-1"
	assert.True(t, All(ctx, user).Allow(e))

	e.Context = "job-1"
	assert.False(t, All(ctx, user).Allow(e))

	assert.True(t, All().Allow(e))
	assert.Same(t, ctx, All(ctx))
}

func TestFunc(t *testing.T) {
	errorsOnly := Func(func(e *core.Entry) bool { return e.Level >= core.ErrorLevel })
	assert.False(t, errorsOnly.Allow(withContext("")))
}

func TestHandler(t *testing.T) {
	rec := handlertest.New()
	h := NewHandler(rec, NewContextFilter("request-42"))

	require.NoError(t, h.Handle(withContext("server request-42 handler")))
	require.NoError(t, h.Handle(withContext("server request-43 handler")))

	assert.Equal(t, 1, rec.Len())
	snap := h.Stats()
	assert.EqualValues(t, 1, snap.DroppedTotal[core.InfoLevel])

	require.NoError(t, h.Close())
	assert.True(t, rec.Closed())
	assert.Same(t, rec, h.Unwrap())
}
