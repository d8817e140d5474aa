// Package formatter defines how log entries are serialized into bytes.
//
// Formatter returns a []byte; BufferFormatter appends into a caller-owned
// buffer, and handlers prefer it when available. Formatters never append a
// line terminator: that is a handler setting.
//
// Built-in formatters:
//
//   - TextFormatter: "time [LEVEL] name [context] message k=v".
//   - JSONFormatter: one JSON object per entry, built without reflection.
//   - PatternFormatter: a user format string, see Template.
//   - DispatchingFormatter: selects one of the above by matching the
//     logger name against an ordered list of regular expressions, and
//     fails with *NoMatchError when nothing matches.
//
// Template is also used by the multi-file router to derive file names
// from entries. Time placeholders take strftime specs.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
