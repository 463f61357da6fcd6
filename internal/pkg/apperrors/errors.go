// Package apperrors defines the error categories shared by every layer. The
// HTTP mapping in middleware.HandleAPIError switches on these sentinels only.
package apperrors

import (
	"errors"
	"strings"
)

// Categories
var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrConflict             = errors.New("conflict")
	ErrReferencedRowMissing = errors.New("referenced record not found")

	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMissing       = errors.New("missing token")

	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Domain errors; Error() is the message shown to API clients
var (
	ErrUserNotFound            = NewResourceNotFoundError("User not found")
	ErrStudentNotFound         = NewResourceNotFoundError("Student not found")
	ErrSessionNotFound         = NewResourceNotFoundError("Session not found")
	ErrEmailAlreadyExists      = NewCustomError(ErrConflict, "Email already exists")
	ErrStudentEmailExists      = NewCustomError(ErrConflict, "Student email already exists")
	ErrStudentReferenceMissing = NewCustomError(ErrReferencedRowMissing, "Referenced student not found")
)

// CustomError attaches a client-facing message to a category sentinel
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error { return e.Err }

// NewCustomError creates a CustomError with underlying error
func NewCustomError(kind error, message string) *CustomError {
	return &CustomError{Err: kind, Message: message}
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}

func NewUnauthenticatedError(message string) error {
	return NewCustomError(ErrUnauthenticated, message)
}

// Is reports whether err matches any of targets
func Is(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failing field of a request; it unwraps to
// ErrValidationFailed.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// Add appends a field failure
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message != "" {
			return e.Message
		}
		return ErrValidationFailed.Error()
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Field + ": " + f.Message)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
