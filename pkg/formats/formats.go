// Package formats provides parsers for triangulated-surface mesh files.
package formats

import (
	"errors"
	"fmt"
)

// Mesh parse errors. Every error returned by the loaders wraps one of these.
var (
	ErrFileNotFound    = errors.New("mesh file not readable")
	ErrMalformedHeader = errors.New("malformed mesh header")
	ErrTruncatedData   = errors.New("truncated mesh data")
	ErrMalformedRecord = errors.New("malformed mesh record")
)

// ParseError describes a failed mesh load.
type ParseError struct {
	Path   string // File path or mesh name
	Kind   error  // One of the Err* sentinels
	Detail string // Human-readable detail, may be empty
	Err    error  // Underlying I/O or strconv error, may be nil
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func parseErr(path string, kind error, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
