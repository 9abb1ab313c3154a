package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing, invalid or expired credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the principal lacks the role required for the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition indicates a status change the remittance workflow does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates the resource is in a state that prevents the operation
// (e.g. editing a deposited slip, reusing an assigned cheque sheet).
var ErrConflict = errors.New("resource state conflict")

// ErrInternal is returned when an unexpected failure should not leak details to callers.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }
