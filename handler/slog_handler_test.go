package handler

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/formatter"
	"github.com/philipp01105/tracelog/scope"
)

func newBufferHandler(buf *bytes.Buffer) *ConsoleHandler {
	return NewConsoleHandler(ConsoleConfig{
		Writer:    buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
}

func TestSlogHandler_Enabled(t *testing.T) {
	sh := NewSlogHandler(newBufferHandler(&bytes.Buffer{}), "app", core.InfoLevel)

	if sh.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should not be enabled when level is Info")
	}
	if !sh.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be enabled when level is Info")
	}
	if !sh.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn should be enabled when level is Info")
	}
	if !sh.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error should be enabled when level is Info")
	}
}

func TestSlogHandler_TraceEnabled(t *testing.T) {
	sh := NewSlogHandler(newBufferHandler(&bytes.Buffer{}), "app", core.TraceLevel)
	if !sh.Enabled(context.Background(), SlogLevelTrace) {
		t.Error("Trace should be enabled when level is Trace")
	}

	sh = NewSlogHandler(newBufferHandler(&bytes.Buffer{}), "app", core.DebugLevel)
	if sh.Enabled(context.Background(), SlogLevelTrace) {
		t.Error("Trace should not be enabled when level is Debug")
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel))

	logger.Info("test message", "key", "value", "count", 42)

	output := buf.String()
	if !strings.Contains(output, "[INFO] app test message") {
		t.Errorf("Expected level, name and message in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected 'key=value' in output, got: %s", output)
	}
	if !strings.Contains(output, "count=42") {
		t.Errorf("Expected 'count=42' in output, got: %s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("Expected terminator, got: %q", output)
	}
}

func TestSlogHandler_ScopeFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel))

	ctx := scope.With(context.Background(), "req-7")
	logger.InfoContext(ctx, "handled")

	if !strings.Contains(buf.String(), "app [req-7] handled") {
		t.Errorf("Expected context in output, got: %s", buf.String())
	}
}

func TestSlogHandler_ScopeFromGoroutine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel))

	scope.Do("job-1", func() {
		logger.Info("running")
	})
	logger.Info("idle")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[job-1] running") {
		t.Errorf("Expected goroutine scope on first line, got: %s", lines[0])
	}
	if strings.Contains(lines[1], "[job-1]") {
		t.Errorf("Scope leaked past Do: %s", lines[1])
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel)).With("request_id", "req-123")

	logger.Info("test message")

	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Errorf("Expected 'request_id=req-123' in output, got: %s", buf.String())
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel)).WithGroup("auth")

	logger.Info("test message", "user_id", 123)

	if !strings.Contains(buf.String(), "auth.user_id=123") {
		t.Errorf("Expected 'auth.user_id=123' in output, got: %s", buf.String())
	}
}

func TestSlogHandler_NestedGroupAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.DebugLevel))

	logger.Info("login", slog.Group("user", slog.String("name", "alice"), slog.Int("id", 7)))

	output := buf.String()
	if !strings.Contains(output, "user.name=alice") || !strings.Contains(output, "user.id=7") {
		t.Errorf("Expected flattened group keys, got: %s", output)
	}
}

func TestSlogHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newBufferHandler(&buf), "app", core.InfoLevel))

	logger.Debug("should not appear")
	if buf.Len() > 0 {
		t.Error("Debug message should not have been logged")
	}

	logger.Info("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("Expected 'should appear' in output, got: %s", buf.String())
	}
}

func TestSlogLevelToCore(t *testing.T) {
	tests := []struct {
		slogLevel slog.Level
		coreLevel core.Level
	}{
		{SlogLevelTrace, core.TraceLevel},
		{slog.LevelDebug, core.DebugLevel},
		{slog.LevelInfo, core.InfoLevel},
		{slog.LevelWarn, core.WarnLevel},
		{slog.LevelError, core.ErrorLevel},
		{slog.LevelError + 4, core.ErrorLevel},
	}

	for _, tt := range tests {
		got := SlogLevelToCore(tt.slogLevel)
		if got != tt.coreLevel {
			t.Errorf("SlogLevelToCore(%v) = %v, want %v", tt.slogLevel, got, tt.coreLevel)
		}
	}
}
