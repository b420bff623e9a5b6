package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================
//
// Every public entry point returns either its result or an error that matches
// exactly one of these sentinels with errors.Is:
//
//   ErrNotFound      - an input file (or requested sheet) does not exist
//   ErrFormat        - a tabular or mapping source cannot be parsed
//   ErrValidation    - a payload fails the strict structural check
//   ErrSerialization - a value cannot be rendered as JSON, or reparse failed
//   ErrIO            - an output artifact could not be written

var (
	ErrNotFound      = errors.New("not found")
	ErrFormat        = errors.New("format error")
	ErrValidation    = errors.New("validation error")
	ErrSerialization = errors.New("serialization error")
	ErrIO            = errors.New("io error")
)

// Error is the concrete error returned by pipeline components.
type Error struct {
	// Kind is one of the sentinels above.
	Kind error

	// Op names the failing operation, e.g. "load", "save".
	Op string

	// Path is the file involved, if any.
	Path string

	// Err is the underlying cause. May be nil.
	Err error
}

// Error formats as "op path: kind: cause".
func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds an *Error. Passing a nil cause is allowed.
func NewError(kind error, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(kind error, op, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
