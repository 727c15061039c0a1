package api

import "fmt"

// The client distinguishes three failure kinds so the views can show
// different guidance for each. None of them is ever retried.

// BackendError means the server was reached and answered with a JSON error
// body. Message carries the server-supplied detail when present.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error: status %d, message: %s", e.StatusCode, e.Message)
}

// ProtocolMismatchError means a response arrived but was not JSON where JSON
// was required. Snippet holds a truncated piece of the raw body as a
// diagnostic aid; it is never parsed. A mismatch is a hard stop.
type ProtocolMismatchError struct {
	ContentType string
	Snippet     string
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("server returned non-JSON response (content type %q): %s", e.ContentType, e.Snippet)
}

// ConnectivityError means the request never completed at the transport level,
// e.g. the server is down or a cross-origin policy rejected the request.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "cannot connect to server: check that the backend is running and cross-origin access is configured (" + e.Err.Error() + ")"
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
