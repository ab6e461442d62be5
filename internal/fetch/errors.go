package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies fetch failures.
type Kind int

const (
	// KindUnsupportedScheme means the URL scheme is not handled.
	KindUnsupportedScheme Kind = iota + 1
	// KindRemoteFailure covers transport errors and non-2xx responses.
	KindRemoteFailure
	// KindLocalIO means a file source was missing or unreadable.
	KindLocalIO
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedScheme:
		return "unsupported_scheme"
	case KindRemoteFailure:
		return "remote_failure"
	case KindLocalIO:
		return "local_io"
	default:
		return "unknown"
	}
}

// ErrTooLarge is wrapped when a source exceeds the configured size limit.
var ErrTooLarge = errors.New("source exceeds size limit")

// Error describes a failed fetch.
type Error struct {
	Kind Kind
	URL  string
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int
	// Timeout is set when the attempt ran out of time.
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %s: upstream status %d", e.URL, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unreachable reports whether the origin never produced a response.
func (e *Error) Unreachable() bool {
	return e.Kind == KindRemoteFailure && e.StatusCode == 0
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
