package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// TraceLevel for call tracing (entry, exit and yielded items)
	TraceLevel Level = iota - 1
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// FatalLevel for fatal messages (causes os.Exit(1))
	FatalLevel
	// PanicLevel for panic messages (causes panic)
	PanicLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case PanicLevel:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// Entry is a single log record.
//
// Context is copied from the emitting goroutine's scope when the entry is
// built and is not modified afterwards.
type Entry struct {
	Time       time.Time
	Level      Level
	LoggerName string
	Message    string
	Context    string
	Fields     []Field
	Caller     CallerInfo
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// Lookup resolves an attribute of the entry by name. The built-in names
// "name", "message", "level", "context" and "time" refer to the entry
// itself; anything else is looked up among the fields, last one wins.
func (e *Entry) Lookup(name string) (string, bool) {
	switch name {
	case "name":
		return e.LoggerName, true
	case "message":
		return e.Message, true
	case "level":
		return e.Level.String(), true
	case "context":
		return e.Context, true
	case "time":
		return e.Time.Format(time.RFC3339), true
	}
	if f, ok := e.Field(name); ok {
		return f.StringValue(), true
	}
	return "", false
}

// Field returns the last field with the given key.
func (e *Entry) Field(key string) (Field, bool) {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i], true
		}
	}
	return Field{}, false
}

// Clone returns a copy of the entry that does not share the Fields slice.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Fields = append([]Field(nil), e.Fields...)
	return &c
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8),
		}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.LoggerName = ""
	e.Context = ""
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}
	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}
	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

// PackagePath returns the import path of the package that declares the
// fully qualified function name fn, as reported by runtime.FuncForPC.
//
//	"github.com/acme/app/store.(*DB).Get" -> "github.com/acme/app/store"
func PackagePath(fn string) string {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}
