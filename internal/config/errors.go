package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates the file extension maps to no known codec.
	ErrUnsupportedFormat = errors.New("unsupported bindings format")

	// ErrUnnameableKey indicates a bound keycode has no portable name, so
	// the document would not survive a round trip.
	ErrUnnameableKey = errors.New("keycode has no portable name")
)

// ParseError reports a bindings or settings file the loader rejected.
// Context and Action are set when one entry is at fault rather than the
// document as a whole.
type ParseError struct {
	// Path is the file that failed to load.
	Path string
	// Context is the binding context of the offending entry, if any.
	Context string
	// Action is the action id of the offending entry, if any.
	Action string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Context != "" && e.Action != "":
		return fmt.Sprintf("parse error in %s: context %q, action %q: %s", e.Path, e.Context, e.Action, e.Message)
	case e.Context != "":
		return fmt.Sprintf("parse error in %s: context %q: %s", e.Path, e.Context, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
