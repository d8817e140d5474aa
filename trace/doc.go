// Package trace logs entry into and exit from functions.
//
// A Tracer decides which logger the records go to. Wrapping a function
// returns a function with the same signature that, on every call, logs
//
//	-> name              at entry, with the arguments
//	<- name result       on return
//	<- name exception: e at ERROR level when an error is returned
//
// indented with one tab per level of nesting. Nesting depth travels in
// the context.Context handed to the wrapped function, so a traced
// function calling another traced function with the ctx it received
// produces indented output:
//
//	var tr = trace.ForCaller("shop")
//
//	var loadOrder = trace.Wrap1(tr, "loadOrder", func(ctx context.Context, id int) (*Order, error) {
//		...
//	})
//
// Wrapping is decided once: when tracing is disabled with SetEnabled(false)
// before a function is wrapped, the Wrap functions return their argument
// unchanged. Functions listed with WithIgnore are never wrapped.
//
// Types whose methods should be traced are wrapped by a decorator that
// implements the same interface and calls Call around each method; see
// the package example.
package trace
