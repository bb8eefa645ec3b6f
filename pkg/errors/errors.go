package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrInvalidInput
	ErrLookupFailure
	ErrRemoteService
	ErrInternal
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: message,
	}
}

func NewLookupFailure(message string, err error) *AppError {
	return &AppError{
		Code:    ErrLookupFailure,
		Message: message,
		Err:     err,
	}
}

// NewRemoteService wraps a failure of the external inference service.
// Callers recover from it with the local algorithms; it never reaches an
// API response on its own.
func NewRemoteService(err error) *AppError {
	return &AppError{
		Code:    ErrRemoteService,
		Message: "inference service unavailable",
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// CodeOf returns the application error code for err, or ErrInternal when
// err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
