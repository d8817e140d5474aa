package filehandler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
)

func entry(msg string) *core.Entry {
	return &core.Entry{
		Time:       time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Level:      core.InfoLevel,
		LoggerName: "app",
		Message:    msg,
	}
}

func messageFormatter(t *testing.T) formatter.Formatter {
	t.Helper()
	pf, err := formatter.NewPatternFormatter("{message}")
	if err != nil {
		t.Fatal(err)
	}
	return pf
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFileHandler_Append(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "logs", "app.log")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := New(Config{Filename: filename, Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Handle(entry("first")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := readFile(t, filename); got != "existing\nfirst\n" {
		t.Errorf("got %q", got)
	}
}

func TestFileHandler_Truncate(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(filename, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := New(Config{Filename: filename, Mode: ModeTruncate, Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Handle(entry("a"))
	_ = h.Close()
	// reopened after Close appends instead of truncating again
	_ = h.Handle(entry("b"))
	_ = h.Close()

	if got := readFile(t, filename); got != "a\nb\n" {
		t.Errorf("got %q", got)
	}
}

func TestFileHandler_CreatesParentDirectories(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "a", "b", "c.log")
	h, err := New(Config{Filename: filename})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, err := os.Stat(filename); err != nil {
		t.Errorf("file should exist after New: %v", err)
	}
}

func TestFileHandler_Delay(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lazy.log")
	h, err := New(Config{Filename: filename, Delay: true, Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if _, err := os.Stat(filename); !os.IsNotExist(err) {
		t.Fatalf("file should not exist before the first record, stat err = %v", err)
	}
	_ = h.Handle(entry("now"))
	if got := readFile(t, filename); got != "now\n" {
		t.Errorf("got %q", got)
	}
}

func TestFileHandler_Terminator(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "t.log")
	h, err := New(Config{Filename: filename, Terminator: "|", Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Handle(entry("x"))
	_ = h.Handle(entry("y"))
	_ = h.Close()

	if got := readFile(t, filename); got != "x|y|" {
		t.Errorf("got %q", got)
	}
}

func TestFileHandler_SetFormatter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "f.log")
	h, err := New(Config{Filename: filename, Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Handle(entry("plain"))
	pf, _ := formatter.NewPatternFormatter("{level} {message}")
	h.SetFormatter(pf)
	_ = h.Handle(entry("leveled"))
	_ = h.Close()

	if got := readFile(t, filename); got != "plain\nINFO leveled\n" {
		t.Errorf("got %q", got)
	}
}

func TestFileHandler_Encoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		policy   ErrorPolicy
		msg      string
		want     []byte
		wantErr  bool
	}{
		{"utf8 default", "", "", "héllo", []byte("héllo\n"), false},
		{"latin1", "latin1", Strict, "é", []byte{0xE9, '\n'}, false},
		{"latin1 strict", "latin1", Strict, "a日b", nil, true},
		{"latin1 replace", "latin1", Replace, "a日b", []byte{'a', 0x1A, 'b', '\n'}, false},
		{"latin1 ignore", "latin1", Ignore, "a日b", []byte("ab\n"), false},
		{"utf16le", "utf-16le", Strict, "hi", []byte{'h', 0, 'i', 0, '\n', 0}, false},
		{"invalid utf8 strict", "", Strict, "a\xffb", nil, true},
		{"invalid utf8 replace", "", Replace, "a\xffb", []byte("a�b\n"), false},
		{"invalid utf8 ignore", "", Ignore, "a\xffb", []byte("ab\n"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "enc.log")
			h, err := New(Config{
				Filename:  filename,
				Encoding:  tt.encoding,
				Errors:    tt.policy,
				Formatter: messageFormatter(t),
			})
			if err != nil {
				t.Fatal(err)
			}
			err = h.Handle(entry(tt.msg))
			_ = h.Close()

			if tt.wantErr {
				var ee *EncodeError
				if !errors.As(err, &ee) {
					t.Fatalf("expected EncodeError, got %v", err)
				}
				if h.Stats().ErrorsTotal != 1 {
					t.Errorf("error should be counted")
				}
				return
			}
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			got, _ := os.ReadFile(filename)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

func TestFileHandler_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]Config{
		"no filename":   {},
		"bad encoding":  {Filename: filepath.Join(dir, "a.log"), Encoding: "klingon"},
		"bad policy":    {Filename: filepath.Join(dir, "b.log"), Errors: "shrug"},
		"bad mode":      {Filename: filepath.Join(dir, "c.log"), Mode: "x"},
		"dir is a file": {Filename: filepath.Join(dir, "file.txt", "d.log")},
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	for name, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFileHandler_ConcurrentRecordsDoNotInterleave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "c.log")
	h, err := New(Config{Filename: filename, Formatter: messageFormatter(t)})
	if err != nil {
		t.Fatal(err)
	}

	line := strings.Repeat("x", 512)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = h.Handle(entry(line))
			}
		}()
	}
	wg.Wait()
	if err := h.Flush(); err != nil {
		t.Fatal(err)
	}
	_ = h.Close()

	lines := strings.Split(strings.TrimSuffix(readFile(t, filename), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("expected 400 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l != line {
			t.Fatalf("interleaved record of length %d", len(l))
		}
	}
	if h.Stats().ProcessedTotal != 400 {
		t.Errorf("processed = %d", h.Stats().ProcessedTotal)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAppend, "a": ModeAppend, "append": ModeAppend, "w": ModeTruncate, "truncate": ModeTruncate} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("r"); err == nil {
		t.Error("expected error for read mode")
	}
}
