package mobileservice

import (
	"errors"
	"fmt"
)

// ErrNilRequest is returned when a nil request is handed to the
// Connection. No network call is attempted.
var ErrNilRequest = errors.New("request cannot be nil")

// StatusError is returned when the backend answers with a status code
// outside [200, 300). Message carries the response body verbatim when
// one was present, or a synthesized "{'code': <status>}" string when
// the body was blank.
type StatusError struct {
	StatusCode int
	Message    string
	Response   *Response
}

func (e *StatusError) Error() string {
	return e.Message
}

// TransportError wraps an I/O or protocol fault raised while executing
// the network call. Response holds whatever partial response was
// obtained, possibly nil.
type TransportError struct {
	Err      error
	Response *Response
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error while processing request: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatusError reports whether err is a non-2xx status failure.
func IsStatusError(err error) bool {
	var e *StatusError
	return errors.As(err, &e)
}

// IsTransportError reports whether err is a network/transport failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// ResponseFromError extracts the best-available response referenced by
// a classified error, or nil when the failure happened before any
// response existed.
func ResponseFromError(err error) *Response {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Response
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Response
	}
	return nil
}
