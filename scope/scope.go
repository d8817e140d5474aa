package scope

import (
	"context"
	"fmt"
	"sync"

	"github.com/petermattis/goid"
)

type ctxKey struct{}

func join(parent string, label interface{}) string {
	s := fmt.Sprint(label)
	if parent == "" {
		return s
	}
	return parent + " " + s
}

// With returns a copy of ctx whose scope context has label appended. When
// ctx carries no scope the calling goroutine's scope is the parent.
func With(ctx context.Context, label interface{}) context.Context {
	return context.WithValue(ctx, ctxKey{}, join(Resolve(ctx), label))
}

// FromContext returns the scope context carried by ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// Resolve returns the scope context carried by ctx when it has one, and the
// calling goroutine's scope otherwise.
func Resolve(ctx context.Context) string {
	if ctx != nil {
		if s, ok := ctx.Value(ctxKey{}).(string); ok {
			return s
		}
	}
	return Current()
}

// goroutine id -> current joined context
var local sync.Map

// Enter appends label to the calling goroutine's scope and returns the
// function that restores the previous value. The returned function is
// idempotent; defer it so the scope is left on panics too.
func Enter(label interface{}) (exit func()) {
	id := goid.Get()
	prev, had := local.Load(id)
	parent, _ := prev.(string)
	local.Store(id, join(parent, label))

	var once sync.Once
	return func() {
		once.Do(func() {
			if had {
				local.Store(id, parent)
			} else {
				local.Delete(id)
			}
		})
	}
}

// Current returns the calling goroutine's scope context, or "".
func Current() string {
	v, ok := local.Load(goid.Get())
	if !ok {
		return ""
	}
	return v.(string)
}

// Do runs fn inside a goroutine-local scope.
func Do(label interface{}, fn func()) {
	defer Enter(label)()
	fn()
}
