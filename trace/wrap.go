package trace

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"strings"

	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/logger"
)

// Call runs fn with entry and exit records. It is the building block of
// the Wrap functions and of hand-written decorators. args are logged with
// the entry record. Unlike the Wrap functions, Call consults the enable
// flag on every invocation.
//
// An error returned by fn is logged once at ErrorLevel and returned
// unchanged. A panic is logged the same way and then re-raised with the
// same value.
func Call[R any](ctx context.Context, t *Tracer, name string, args []interface{}, fn func(context.Context) (R, error)) (R, error) {
	if !t.wraps(name) {
		return fn(ctx)
	}
	return call(ctx, t, name, args, true, fn)
}

// Frames between the caller of a traced function and the logger: the
// wrapper closure (or Call), call, and enter or logFailure when used.
const (
	entrySkip = 3
	exitSkip  = 2
)

func call[R any](ctx context.Context, t *Tracer, name string, args []interface{}, hasResult bool, fn func(context.Context) (R, error)) (res R, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	depth := Depth(ctx)
	indent := strings.Repeat("\t", depth)
	r := t.resolve()

	enter(ctx, r.skip[entrySkip], t.level, indent, name, depth, args)

	finished := false
	defer func() {
		if finished {
			return
		}
		p := recover()
		if p == nil {
			// runtime.Goexit
			return
		}
		logFailure(ctx, r.log.AddCallerSkip(panicSkip()), indent, name, depth, fmt.Errorf("panic: %v", p))
		panic(p)
	}()

	res, err = fn(WithDepth(ctx, depth+1))
	finished = true

	if err != nil {
		logFailure(ctx, r.skip[entrySkip], indent, name, depth, err)
		return res, err
	}
	if l := r.skip[exitSkip]; l.Enabled(t.level) {
		msg := indent + "<- " + name
		if hasResult {
			msg += " " + repr(res)
		}
		l.LogContext(ctx, t.level, msg, logger.Int("depth", depth))
	}
	return res, nil
}

// panicSkip counts the frames between the deferred handler in call and
// call's caller, which depend on where the panic was raised. It must be
// called directly from that handler.
func panicSkip() int {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	for n := 0; ; n++ {
		f, more := frames.Next()
		if f.Function == callName {
			// logFailure plus the frames from the handler to call's caller
			return n + 3
		}
		if !more {
			return 0
		}
	}
}

var callName = func() string {
	pc, _, _, _ := runtime.Caller(0)
	return core.PackagePath(runtime.FuncForPC(pc).Name()) + ".call[...]"
}()

// Wrap0 traces a function without arguments.
func Wrap0[R any](t *Tracer, name string, fn func(context.Context) (R, error)) func(context.Context) (R, error) {
	if !t.wraps(name) {
		return fn
	}
	return func(ctx context.Context) (R, error) {
		return call(ctx, t, name, nil, true, fn)
	}
}

// Wrap1 traces a function of one argument.
func Wrap1[A, R any](t *Tracer, name string, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	if !t.wraps(name) {
		return fn
	}
	return func(ctx context.Context, a A) (R, error) {
		return call(ctx, t, name, []interface{}{a}, true, func(ctx context.Context) (R, error) {
			return fn(ctx, a)
		})
	}
}

// Wrap2 traces a function of two arguments.
func Wrap2[A, B, R any](t *Tracer, name string, fn func(context.Context, A, B) (R, error)) func(context.Context, A, B) (R, error) {
	if !t.wraps(name) {
		return fn
	}
	return func(ctx context.Context, a A, b B) (R, error) {
		return call(ctx, t, name, []interface{}{a, b}, true, func(ctx context.Context) (R, error) {
			return fn(ctx, a, b)
		})
	}
}

// WrapErr traces a function that only returns an error. The exit record
// carries no result.
func WrapErr(t *Tracer, name string, fn func(context.Context) error) func(context.Context) error {
	if !t.wraps(name) {
		return fn
	}
	return func(ctx context.Context) error {
		_, err := call(ctx, t, name, nil, false, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		return err
	}
}

// WrapSeq traces a function producing a lazy sequence. The entry record
// is written when the function is called; every element is logged as
//
//	<~ name
//
// with the element in the "item" field. Element errors are logged at
// ErrorLevel and passed through unchanged. The producer runs with the
// incremented depth for as long as the sequence is consumed.
func WrapSeq[A, T any](t *Tracer, name string, fn func(context.Context, A) iter.Seq2[T, error]) func(context.Context, A) iter.Seq2[T, error] {
	if !t.wraps(name) {
		return fn
	}
	return func(ctx context.Context, a A) iter.Seq2[T, error] {
		if ctx == nil {
			ctx = context.Background()
		}
		depth := Depth(ctx)
		indent := strings.Repeat("\t", depth)
		r := t.resolve()

		enter(ctx, r.skip[2], t.level, indent, name, depth, []interface{}{a})
		seq := fn(WithDepth(ctx, depth+1), a)

		// the sequence is called by the consumer's range loop
		return func(yield func(T, error) bool) {
			for item, err := range seq {
				if err != nil {
					logFailure(ctx, r.skip[2], indent, name, depth, err)
				} else if l := r.skip[1]; l.Enabled(t.level) {
					l.LogContext(ctx, t.level, indent+"<~ "+name,
						logger.Int("depth", depth),
						logger.Any("item", item),
					)
				}
				if !yield(item, err) {
					return
				}
			}
		}
	}
}
