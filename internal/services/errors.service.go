package services

import (
	"errors"
	"fmt"
)

// Sync error taxonomy. Every remote operation fails with exactly one of
// these; the store rethrows them untouched and callers pick the reaction.
var (
	// ErrInvalidEndpoint indicates a malformed request path.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidResponse indicates the transport produced something that is
	// not a well-formed HTTP response.
	ErrInvalidResponse = errors.New("invalid response")
)

// DecodingError indicates a wire record did not match the expected shape,
// including the timestamp fallback chain exhausting both formats.
type DecodingError struct {
	Literal string
	Err     error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding failed for %q: %v", e.Literal, e.Err)
	}
	return fmt.Sprintf("decoding failed for %q", e.Literal)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// TransportError indicates a network-level failure before any HTTP status
// was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError carries a non-2xx status and the raw response body. The body is
// kept as received, never parsed as JSON.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http failure: status=%d body=%s", e.StatusCode, e.Body)
}
