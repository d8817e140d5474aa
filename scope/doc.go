// Package scope tracks the human-readable context labels that are stamped
// onto every log entry.
//
// The context of a scope is the space-joined list of labels entered so far:
//
//	ctx = scope.With(ctx, "server")
//	ctx = scope.With(ctx, "request-42")
//	scope.FromContext(ctx) // "server request-42"
//
// Scopes are values in a context.Context, so leaving a scope is returning
// to the parent context and the previous value is restored on every exit
// path, including panics.
//
// Code that cannot thread a context (callbacks invoked by host logging
// frameworks, for instance) can use the goroutine-local stack instead:
//
//	defer scope.Enter("job-7")()
//
// Goroutine-local scopes are isolated per goroutine and are not inherited
// by goroutines started inside them. Resolve prefers the context value and
// falls back to the goroutine-local one.
package scope
