package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// NotFoundMessage describes a missing catalog product.
	NotFoundMessage = "product not found"
	// ParseErrorMessage describes a model response that did not match the
	// expected structured shape.
	ParseErrorMessage = "llm response parsing failed"
)

// Error wraps an underlying error with an HTTP status and safe message.
type Error struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, status int, message string) *Error {
	return &Error{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return false
}

// WrapNotFound wraps a catalog lookup miss with a 404 status.
func WrapNotFound(err error) *Error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusNotFound, NotFoundMessage)
}

// WrapParse wraps a structured-output parsing failure with a 422 status.
func WrapParse(err error) *Error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusUnprocessableEntity, ParseErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an
// *Error from this package.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
