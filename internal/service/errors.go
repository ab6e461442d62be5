package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies image pipeline failures for the HTTP layer.
type ErrorKind int

const (
	// ErrKindBadSpec means the transform token could not be parsed.
	ErrKindBadSpec ErrorKind = iota + 1
	// ErrKindFetchFailed means the source could not be retrieved.
	ErrKindFetchFailed
	// ErrKindBadImage means the source bytes are not a decodable image.
	ErrKindBadImage
	// ErrKindEncodeFailed means the output could not be encoded.
	ErrKindEncodeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindBadSpec:
		return "bad_spec"
	case ErrKindFetchFailed:
		return "fetch_failed"
	case ErrKindBadImage:
		return "bad_image"
	case ErrKindEncodeFailed:
		return "encode_failed"
	default:
		return "unknown"
	}
}

// Error is returned by ImageService.Process. Err keeps the underlying cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or 0 when err is not an *Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
