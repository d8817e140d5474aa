package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/tracelog/core"
)

// Formatter defines the interface for log formatters.
//
// The returned bytes do not include a line terminator; handlers append
// their own.
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding the copy
// Format has to make.
type BufferFormatter interface {
	// FormatEntry appends the formatted entry to buf.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer) error
}

// FormatInto formats entry into buf, using the BufferFormatter fast path
// when f provides one.
func FormatInto(f Formatter, entry *core.Entry, buf *bytes.Buffer) error {
	if bf, ok := f.(BufferFormatter); ok {
		return bf.FormatEntry(entry, buf)
	}
	data, err := f.Format(entry)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// formatWith runs fill against a pooled buffer and returns a copy of the
// result.
func formatWith(entry *core.Entry, fill func(*core.Entry, *bytes.Buffer) error) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := fill(entry, buf); err != nil {
		return nil, err
	}
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}
