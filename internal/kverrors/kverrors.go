// Package kverrors defines the classified error type shared by the
// storage engine and the HTTP layer.
package kverrors

import (
	"errors"
	"fmt"
	"runtime"
)

// Type classifies an Error so transports can map it to a status code.
type Type string

const (
	// TypeNotFound indicates the requested key does not exist.
	TypeNotFound Type = "NOT_FOUND"
	// TypeInvalidInput indicates a malformed request or parameter.
	TypeInvalidInput Type = "INVALID_INPUT"
	// TypeInternal indicates an unexpected failure inside the server.
	TypeInternal Type = "INTERNAL"
	// TypeStorage indicates the storage engine rejected an operation.
	TypeStorage Type = "STORAGE"
)

// Error is a classified error with the source location it was raised at.
type Error struct {
	Kind    Type
	Message string
	Err     error
	Origin  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind, recording the caller as origin.
func New(kind Type, message string, err error) *Error {
	_, file, line, _ := runtime.Caller(1)
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Origin:  fmt.Sprintf("%s:%d", file, line),
	}
}

func is(err error, kind Type) bool {
	var kvErr *Error
	if errors.As(err, &kvErr) {
		return kvErr.Kind == kind
	}
	return false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return is(err, TypeNotFound)
}

// IsInvalidInput reports whether err is an invalid-input error.
func IsInvalidInput(err error) bool {
	return is(err, TypeInvalidInput)
}

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool {
	return is(err, TypeInternal)
}

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool {
	return is(err, TypeStorage)
}

// FromPanic converts a recovered panic value into an internal Error.
// It returns nil when r is nil so it can wrap recover() directly.
func FromPanic(r interface{}) error {
	if r == nil {
		return nil
	}

	var err error
	switch v := r.(type) {
	case error:
		err = v
	case string:
		err = fmt.Errorf("%s", v)
	default:
		err = fmt.Errorf("%v", v)
	}

	return New(TypeInternal, "recovered from panic", err)
}
