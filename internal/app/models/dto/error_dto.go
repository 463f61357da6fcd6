package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// ErrorCode is the machine-readable identifier carried in every error envelope.
// The prefix names the class: AUTH, RES, VAL or SRV.
type ErrorCode string

const (
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeMissingToken       ErrorCode = "AUTH_002"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeReferenceMissing      ErrorCode = "RES_004"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorSeverity grades an error for log and dashboard filtering
type ErrorSeverity string

const (
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// SeverityOf grades client mistakes as WARNING and server faults as ERROR
func (c ErrorCode) SeverityOf() ErrorSeverity {
	if strings.HasPrefix(string(c), "SRV_") {
		return ErrorSeverityError
	}
	return ErrorSeverityWarning
}

// ErrorDetail is the "error" member of the envelope
type ErrorDetail struct {
	Code      ErrorCode              `json:"code" example:"RES_001"`
	Message   string                 `json:"message" example:"Student not found"`
	Severity  ErrorSeverity          `json:"severity" example:"WARNING"`
	Fields    []apperrors.FieldError `json:"fields,omitempty"`
	Details   any                    `json:"details,omitempty"`
	DebugInfo string                 `json:"debugInfo,omitempty"`
	Stack     string                 `json:"stack,omitempty"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Message   string       `json:"message" example:"Student not found"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message, Severity: code.SeverityOf()}
}

func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

func (e *ErrorDetail) WithDetails(details any) *ErrorDetail {
	e.Details = details
	return e
}

// WithFields attaches per-field validation failures
func (e *ErrorDetail) WithFields(fields []apperrors.FieldError) *ErrorDetail {
	e.Fields = fields
	return e
}

// WithDebugInfo and WithStack are only applied outside release mode
func (e *ErrorDetail) WithDebugInfo(format string, args ...any) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

func (e *ErrorDetail) WithStack(stack string) *ErrorDetail {
	e.Stack = stack
	return e
}

// NewErrorResponse wraps detail in the envelope; the top-level message mirrors detail.Message
func NewErrorResponse(detail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Message:   detail.Message,
		Error:     detail,
		Timestamp: time.Now().UTC(),
	}
}
