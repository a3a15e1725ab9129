package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by TransportError.
var (
	// ErrNotFound marks a 404 from the catalog service.
	ErrNotFound = errors.New("entry not found")
	// ErrUnexpectedStatus marks any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse marks a body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError reports a failed catalog request. Not-found responses use
// the same type and wrap ErrNotFound.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a not-found response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err came from a catalog request.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
