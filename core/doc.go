// Package core defines the shared types used across tracelog.
//
// It provides the Level type (including TraceLevel, which sits below
// DebugLevel), the Entry type that represents a single log record, and the
// Field type for typed key-value pairs.
//
// An Entry carries the name of the logger that emitted it and the scope
// context that was active in the emitting goroutine. Filters, formatters
// and the multi-file router read these through Entry.Lookup, which treats
// the built-in attributes and the structured fields uniformly.
//
// Entry objects are pooled via sync.Pool. Callers get an Entry with
// GetEntry and return it with PutEntry once every handler has consumed it.
package core
