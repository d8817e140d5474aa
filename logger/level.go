package logger

import (
	"fmt"
	"strings"

	"github.com/philipp01105/tracelog/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
	FatalLevel = core.FatalLevel
	PanicLevel = core.PanicLevel
)

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	if l, ok := LookupLevel(s); ok {
		return l
	}
	return InfoLevel
}

// LookupLevel converts a level name, case-insensitively, reporting
// whether the name is known.
func LookupLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel, true
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN", "WARNING":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "FATAL", "CRITICAL":
		return FatalLevel, true
	case "PANIC":
		return PanicLevel, true
	default:
		return InfoLevel, false
	}
}

// ParseLevelStrict is LookupLevel returning an error for unknown names.
func ParseLevelStrict(s string) (Level, error) {
	l, ok := LookupLevel(s)
	if !ok {
		return l, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
