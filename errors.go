package strata

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMultipleNext signals that a middleware invoked its next callback
	// more than once, which would duplicate downstream execution.
	ErrMultipleNext = errors.New("next called more than once")

	// ErrNilMiddleware is the panic value of Use(nil).
	ErrNilMiddleware = errors.New("middleware must not be nil")

	// ErrInvalidStatus is the panic value of SetStatus with a code
	// outside the 100-599 range.
	ErrInvalidStatus = errors.New("invalid status code")
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// exposable is implemented by errors whose message is safe to show to
// the client. Exposable errors are never logged by the default policy.
type exposable interface {
	Exposable() bool
}

// HTTPError is a pipeline error with an associated HTTP status code.
// Expose marks the message as client-safe; the default error policy stays
// silent for exposed errors on the assumption they were already surfaced
// to the client.
type HTTPError struct {
	Status  int
	Message string
	Expose  bool
	Err     error
}

// NewHTTPError creates an HTTPError with the given status and message.
// An empty message defaults to the status text. Client errors (4xx) are
// exposable by default, mirroring common framework behavior.
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = statusMessage(status)
	}
	return &HTTPError{
		Status:  status,
		Message: message,
		Expose:  status >= 400 && status < 500,
	}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status associated with the error.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// Exposable reports whether the message is safe for client visibility.
func (e *HTTPError) Exposable() bool {
	return e.Expose
}

// Unwrap allows errors.Is/As to reach a wrapped cause.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a middleware panic, preserving
// the stack trace captured at the panic point. Panics indicate programming
// defects and are always reported, regardless of status or silent mode.
type PanicError struct {
	value any
	stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *PanicError) Value() any {
	return e.value
}

// Stack returns the stack trace captured at the panic point.
func (e *PanicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with panics raised on error values.
func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// errorStatus extracts the HTTP status an error maps to, defaulting to 500.
func errorStatus(err error) int {
	var sc statusCode
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// errorExposed reports whether any error in the chain is marked exposable.
func errorExposed(err error) bool {
	var ex exposable
	return errors.As(err, &ex) && ex.Exposable()
}
