package core

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by every configuration-time pattern error.
var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError reports a regular expression or template that failed to
// compile while a filter, formatter or handler was being constructed.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Is reports ErrInvalidPattern as a match.
func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }
