// Package handler provides the Handler interface and its built-in
// implementations for delivering log entries to outputs.
//
// Handlers are synchronous: Handle formats the entry and writes it before
// returning, serializing concurrent callers so records are never
// interleaved. Formatters produce a record without a line terminator; each
// handler appends its own (a newline unless configured otherwise).
//
// Built-in handlers:
//
//   - ConsoleHandler writes formatted entries to any io.Writer (default: stderr).
//   - MultiHandler fans out a single entry to multiple child handlers.
//   - SlogHandler adapts the Handler interface to log/slog.Handler, so
//     code using the standard library gets scope context and routing.
//
// File based handlers live in the filehandler and multifile
// subpackages, bridges to other logging libraries in zaphandler and
// logrushook.
//
// Handlers that count their work expose a Snapshot through
// StatsProvider, which the metrics package exports to Prometheus.
package handler
