package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/philipp01105/tracelog/core"
)

// ErrorHandlerFunc receives errors returned by handlers. Logging calls
// never return or panic because of a handler; the error is reported here
// instead.
type ErrorHandlerFunc func(err error, entry *core.Entry)

var errorHandler atomic.Pointer[ErrorHandlerFunc]

// SetErrorHandler installs fn as the handler error hook. nil restores the
// default, which writes a line to stderr.
func SetErrorHandler(fn ErrorHandlerFunc) {
	if fn == nil {
		errorHandler.Store(nil)
		return
	}
	errorHandler.Store(&fn)
}

func reportError(err error, entry *core.Entry) {
	if fn := errorHandler.Load(); fn != nil {
		(*fn)(err, entry)
		return
	}
	fmt.Fprintf(os.Stderr, "tracelog: handler error for logger %q: %v\n", entry.LoggerName, err)
}
