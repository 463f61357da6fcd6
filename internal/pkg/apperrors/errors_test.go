package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

func TestDomainErrorsUnwrapToCategory(t *testing.T) {
	c := qt.New(t)

	wrapped := fmt.Errorf("get student 7: %w", apperrors.ErrStudentNotFound)
	c.Assert(errors.Is(wrapped, apperrors.ErrStudentNotFound), qt.IsTrue)
	c.Assert(errors.Is(wrapped, apperrors.ErrResourceNotFound), qt.IsTrue)
	c.Assert(errors.Is(wrapped, apperrors.ErrSessionNotFound), qt.IsFalse)
	c.Assert(wrapped.Error(), qt.Equals, "get student 7: Student not found")

	c.Assert(errors.Is(apperrors.ErrEmailAlreadyExists, apperrors.ErrConflict), qt.IsTrue)
	c.Assert(errors.Is(apperrors.ErrStudentReferenceMissing, apperrors.ErrReferencedRowMissing), qt.IsTrue)
}

func TestValidationError(t *testing.T) {
	c := qt.New(t)

	verr := apperrors.NewValidationError("Invalid request")
	c.Assert(verr.HasErrors(), qt.IsFalse)
	c.Assert(verr.Error(), qt.Equals, "Invalid request")

	verr.Add("email", "must be a valid email address").Add("password", "must be at least 6 characters")
	c.Assert(verr.HasErrors(), qt.IsTrue)
	c.Assert(verr.Error(), qt.Equals, "validation failed: email: must be a valid email address; password: must be at least 6 characters")

	var target *apperrors.ValidationError
	err := fmt.Errorf("register: %w", verr)
	c.Assert(errors.As(err, &target), qt.IsTrue)
	c.Assert(target.Fields, qt.HasLen, 2)
	c.Assert(errors.Is(err, apperrors.ErrValidationFailed), qt.IsTrue)
}

func TestIs(t *testing.T) {
	c := qt.New(t)

	err := apperrors.NewUnauthenticatedError("Missing token")
	c.Assert(apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired, apperrors.ErrUnauthenticated), qt.IsTrue)
	c.Assert(apperrors.Is(err, apperrors.ErrConflict), qt.IsFalse)
}
