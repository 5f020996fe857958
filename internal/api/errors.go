package api

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when the API reports a failure without detail.
const DefaultErrorMessage = "API request failed"

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("api: transport failure")

// RequestError normalises transport and API-reported failures into a
// single error carrying a display message.
type RequestError struct {
	Method   string
	Endpoint string
	// Status is zero for transport failures.
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: %s %s: %s: %v", e.Method, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("api: %s %s: %s", e.Method, e.Endpoint, e.Message)
}

// Unwrap exposes the cause and, for transport failures, ErrTransport.
func (e *RequestError) Unwrap() []error {
	var errs []error
	if e.Status == 0 && e.transport() {
		errs = append(errs, ErrTransport)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *RequestError) transport() bool {
	var marker transportError
	return errors.As(e.Err, &marker)
}

// transportError tags causes raised by the HTTP round trip itself.
type transportError struct{ err error }

func (t transportError) Error() string { return t.err.Error() }
func (t transportError) Unwrap() error { return t.err }

// Message returns the display message for err, falling back to the
// generic message for errors that did not come from the gateway.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return DefaultErrorMessage
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}
