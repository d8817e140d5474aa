package logger

import (
	"fmt"
	"time"

	"github.com/philipp01105/tracelog/core"
)

// Field constructors. Each one produces the typed core.Field the
// formatters know how to render; Value picks the type at run time.

func String(key, val string) core.Field { return core.Field{Key: key, Type: core.StringType, Str: val} }

func Int(key string, val int) core.Field {
	return core.Field{Key: key, Type: core.IntType, Int64: int64(val)}
}

func Int64(key string, val int64) core.Field {
	return core.Field{Key: key, Type: core.Int64Type, Int64: val}
}

func Float64(key string, val float64) core.Field {
	return core.Field{Key: key, Type: core.Float64Type, Float64: val}
}

// Bool stores the value as 0 or 1.
func Bool(key string, val bool) core.Field {
	f := core.Field{Key: key, Type: core.BoolType}
	if val {
		f.Int64 = 1
	}
	return f
}

// Time keeps nanosecond precision; the location is not preserved.
func Time(key string, val time.Time) core.Field {
	return core.Field{Key: key, Type: core.TimeType, Int64: val.UnixNano()}
}

func Duration(key string, val time.Duration) core.Field {
	return core.Field{Key: key, Type: core.DurationType, Int64: int64(val)}
}

// Err records err under the "error" key. A nil error gives an empty value.
func Err(err error) core.Field { return NamedErr("error", err) }

// NamedErr records err under key.
func NamedErr(key string, err error) core.Field {
	f := core.Field{Key: key, Type: core.ErrorType}
	if err != nil {
		f.Str = err.Error()
	}
	return f
}

// Stringer renders val when the field is created.
func Stringer(key string, val fmt.Stringer) core.Field {
	if val == nil {
		return String(key, "<nil>")
	}
	return String(key, val.String())
}

// Any keeps val as is; formatters render it with fmt or encoding/json.
func Any(key string, val interface{}) core.Field {
	return core.Field{Key: key, Type: core.AnyType, Any: val}
}

// Value chooses the field type from the dynamic type of val.
func Value(key string, val interface{}) core.Field { return core.FieldOf(key, val) }
