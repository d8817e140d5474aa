package handler

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
)

func newEntry(level core.Level, msg string) *core.Entry {
	return &core.Entry{
		Time:       time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Level:      level,
		LoggerName: "app",
		Message:    msg,
	}
}

func TestConsoleHandler_Sync(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	defer h.Close()

	if err := h.Handle(newEntry(core.InfoLevel, "test message")); err != nil {
		t.Errorf("Handle() error = %v", err)
	}

	want := "2026-01-15T12:00:00Z [INFO] app test message\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestConsoleHandler_Terminator(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf, Terminator: "\r\n"})

	_ = h.Handle(newEntry(core.WarnLevel, "one"))
	_ = h.Handle(newEntry(core.WarnLevel, "two"))

	if got := strings.Count(buf.String(), "\r\n"); got != 2 {
		t.Errorf("expected 2 CRLF terminators, got %d in %q", got, buf.String())
	}
}

func TestConsoleHandler_NoTerminator(t *testing.T) {
	var buf bytes.Buffer
	pf, err := formatter.NewPatternFormatter("{message};")
	if err != nil {
		t.Fatal(err)
	}
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf, Formatter: pf, NoTerminator: true})

	_ = h.Handle(newEntry(core.InfoLevel, "a"))
	_ = h.Handle(newEntry(core.InfoLevel, "b"))

	if buf.String() != "a;b;" {
		t.Errorf("got %q, want %q", buf.String(), "a;b;")
	}
}

func TestConsoleHandler_SetFormatter(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf})

	pf, err := formatter.NewPatternFormatter("{level}:{message}")
	if err != nil {
		t.Fatal(err)
	}
	h.SetFormatter(pf)
	_ = h.Handle(newEntry(core.ErrorLevel, "boom"))

	if buf.String() != "ERROR:boom\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestConsoleHandler_FormatErrorCounted(t *testing.T) {
	var buf bytes.Buffer
	pf, err := formatter.NewPatternFormatter("{missing}")
	if err != nil {
		t.Fatal(err)
	}
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf, Formatter: pf})

	err = h.Handle(newEntry(core.InfoLevel, "x"))
	var mf *formatter.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on format error, got %q", buf.String())
	}
	if snap := h.Stats(); snap.ErrorsTotal != 1 || snap.ProcessedTotal != 0 {
		t.Errorf("unexpected stats %+v", snap)
	}
}

func TestConsoleHandler_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = h.Handle(newEntry(core.InfoLevel, "concurrent"))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 800 {
		t.Fatalf("expected 800 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "app concurrent") {
			t.Fatalf("interleaved line %q", line)
		}
	}
	if h.Stats().ProcessedTotal != 800 {
		t.Errorf("processed = %d, want 800", h.Stats().ProcessedTotal)
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	h1 := NewConsoleHandler(ConsoleConfig{Writer: &buf1})
	h2 := NewConsoleHandler(ConsoleConfig{Writer: &buf2})

	multi := NewMultiHandler(h1, h2)
	defer multi.Close()

	if err := multi.Handle(newEntry(core.InfoLevel, "multi test")); err != nil {
		t.Errorf("Handle() error = %v", err)
	}

	if !strings.Contains(buf1.String(), "multi test") {
		t.Error("First handler did not receive message")
	}
	if !strings.Contains(buf2.String(), "multi test") {
		t.Error("Second handler did not receive message")
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestMultiHandler_CollectsErrors(t *testing.T) {
	var buf bytes.Buffer
	errA := errors.New("disk full")
	errB := errors.New("pipe closed")

	multi := NewMultiHandler(
		NewConsoleHandler(ConsoleConfig{Writer: failingWriter{errA}}),
		NewConsoleHandler(ConsoleConfig{Writer: &buf}),
		NewConsoleHandler(ConsoleConfig{Writer: failingWriter{errB}}),
	)

	err := multi.Handle(newEntry(core.InfoLevel, "still delivered"))
	if len(multierr.Errors(err)) != 2 {
		t.Fatalf("expected 2 combined errors, got %v", err)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("combined error should wrap both causes: %v", err)
	}
	if !strings.Contains(buf.String(), "still delivered") {
		t.Error("healthy child should still receive the entry")
	}
}

func TestMultiHandler_SetFormatter(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	multi := NewMultiHandler(
		NewConsoleHandler(ConsoleConfig{Writer: &buf1}),
		NewConsoleHandler(ConsoleConfig{Writer: &buf2}),
	)

	pf, err := formatter.NewPatternFormatter("<{message}>")
	if err != nil {
		t.Fatal(err)
	}
	multi.SetFormatter(pf)
	_ = multi.Handle(newEntry(core.InfoLevel, "m"))

	if buf1.String() != "<m>\n" || buf2.String() != "<m>\n" {
		t.Errorf("formatter not propagated: %q %q", buf1.String(), buf2.String())
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementDropped(core.TraceLevel)
	s.IncrementDropped(core.TraceLevel)
	s.IncrementDropped(core.ErrorLevel)
	s.IncrementDropped(core.Level(42))
	s.Record(nil)
	s.Record(errors.New("x"))

	if got := s.GetDropped(core.TraceLevel); got != 2 {
		t.Errorf("trace dropped = %d, want 2", got)
	}
	if got := s.GetTotalDropped(); got != 3 {
		t.Errorf("total dropped = %d, want 3", got)
	}

	snap := s.GetSnapshot()
	if snap.ProcessedTotal != 1 || snap.ErrorsTotal != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	sum := snap.Add(snap)
	if sum.DroppedTotal[core.TraceLevel] != 4 || sum.ProcessedTotal != 2 {
		t.Errorf("unexpected sum %+v", sum)
	}

	s.Reset()
	if s.GetTotalDropped() != 0 || s.GetSnapshot().ProcessedTotal != 0 {
		t.Error("Reset should clear all counters")
	}
}
