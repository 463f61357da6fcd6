package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/logger"
)

// messageOf prefers the user-facing message of a CustomError
func messageOf(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// HandleAPIError is the single place mapping errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := describeError(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err).WithStack(string(debug.Stack()))
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func describeError(err error) (int, *dto.ErrorDetail) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := verr.Message
		if msg == "" {
			msg = "Validation failed"
		}
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, msg).
			WithFields(verr.Fields)

	case errors.Is(err, apperrors.ErrReferencedRowMissing):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeReferenceMissing, messageOf(err, "Referenced record not found"))

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOf(err, "Invalid request"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeMissingToken, "Missing token")

	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Invalid or expired token").
			WithDetails("Token has expired")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid or expired token")

	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, messageOf(err, "Unauthenticated"))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Forbidden").
			WithDetails(messageOf(err, "You don't have sufficient permissions for this operation"))

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOf(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, messageOf(err, "Resource already exists"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// Recovery turns panics into the standard 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		HandleAPIError(c, &panicError{value: recovered})
	})
}

type panicError struct {
	value interface{}
}

func (p *panicError) Error() string {
	return "panic: " + toString(p.value)
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case error:
		return t.Error()
	case string:
		return t
	default:
		return "unknown panic"
	}
}

// NoRoute answers unknown paths with the standard 404 envelope
func NoRoute(c *gin.Context) {
	HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found"))
}
