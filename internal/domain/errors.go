package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a datum was rejected.
type ErrorKind string

const (
	KindStructure  ErrorKind = "structure"  // too few tokens on a line
	KindCoordinate ErrorKind = "coordinate" // unparseable coordinate token
	KindTag        ErrorKind = "tag"        // tag id is not an integer
	KindTruncated  ErrorKind = "truncated"  // header with no location line
	KindSink       ErrorKind = "sink"       // sink rejected the fix
	KindUnknown    ErrorKind = "unknown"
)

var (
	ErrTooFewFields        = errors.New("too few fields")
	ErrTruncated           = errors.New("header has no following location line")
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrUnknownHemisphere   = errors.New("unknown hemisphere")
	ErrOutOfRange          = errors.New("coordinate out of range")
)

// ParseError reports a per-record failure. It never aborts a run; the
// pipeline logs it and moves on to the next datum.
type ParseError struct {
	Kind  ErrorKind
	TagID string // raw tag token, empty when the header could not be split
	Line  int    // header line number, 0 when unknown
	Err   error
}

func (e *ParseError) Error() string {
	if e.TagID == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for tag %s: %v", e.Kind, e.TagID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of the first ParseError in err's chain.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
