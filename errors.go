package relay

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrTransport indicates the upstream refused the request before any
	// streaming began. Match it with errors.Is on a *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrNoData indicates Text() was requested before Next() produced anything.
	ErrNoData = errors.New("no data received yet")
)

// TransportError is returned when the upstream answers with a non-OK status
// or without a body. No snapshots are produced for such a request.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stream error: %d - %s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
