// Package logger is the public API of tracelog. Most users only need to
// import this package.
//
// A Logger is immutable after construction: its name, level, fields,
// filters and handler are set once via the Builder and never modified.
// This makes Logger safe for concurrent use without any locking on the
// read path.
//
// Every entry a Logger emits is built by one record factory, which stamps
// the scope context (see package scope) onto the entry when it is
// created. The ...Context methods take the scope from a context.Context;
// the others use the calling goroutine's scope. When the ctx carries an
// OpenTelemetry span, trace_id and span_id fields are added as well.
//
//	ctx = scope.With(ctx, "request-42")
//	log.InfoContext(ctx, "handled", logger.Int("status", 200))
//
// Named loggers live in a registry keyed by dotted names. Get falls back
// along the hierarchy, so configuring "app" covers "app.db.pool" too:
//
//	logger.Register("app", appLogger)
//	log := logger.Get("app.db.pool")
//
// The root logger (console, InfoLevel, text format to stderr) backs the
// package-level functions Info, Error, Debugf, etc., so simple programs
// can log without any setup:
//
//	logger.Info("ready", logger.Int("port", 8080))
//
// Handler errors never reach the caller; they are passed to the hook set
// with SetErrorHandler, which writes to stderr by default.
//
// Level checks happen before any allocation, so filtered-out
// messages cost only a single integer comparison.
package logger
