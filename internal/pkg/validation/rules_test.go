package validation_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/validation"
)

type sessionInput struct {
	CounselorName string  `json:"counselor_name" validate:"required,notblank"`
	SessionDate   string  `json:"session_date" validate:"required,isodate"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Duration      int     `json:"session_duration" validate:"omitempty,min=1"`
}

func TestIsISODate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "2025-03-14", want: true},
		{in: "2025-03-14T10:00:00Z", want: true},
		{in: "2025-02-30", want: false},
		{in: "14-03-2025", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qt.New(t).Assert(validation.IsISODate(tt.in), qt.Equals, tt.want)
		})
	}
}

func TestValidatorReportsEveryField(t *testing.T) {
	c := qt.New(t)
	v := validation.New()

	bad := "not-an-email"
	err := v.Struct(sessionInput{CounselorName: "   ", SessionDate: "yesterday", Email: &bad, Duration: -1})
	c.Assert(err, qt.IsNotNil)

	verr := validation.FromBindError(err)
	c.Assert(verr.Fields, qt.DeepEquals, []apperrors.FieldError{
		{Field: "counselor_name", Message: "must not be blank"},
		{Field: "session_date", Message: "must be a date in YYYY-MM-DD format"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "session_duration", Message: "must be at least 1"},
	})
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	c := qt.New(t)
	v := validation.New()

	err := v.Struct(sessionInput{CounselorName: "Ms. Rivera", SessionDate: "2025-03-14"})
	c.Assert(err, qt.IsNil)
}

func TestFromBindErrorJSONFailures(t *testing.T) {
	c := qt.New(t)

	var target struct {
		StudentID int64 `json:"student_id"`
	}
	err := json.Unmarshal([]byte(`{"student_id":"seven"}`), &target)
	verr := validation.FromBindError(err)
	c.Assert(verr.Fields, qt.HasLen, 1)
	c.Assert(verr.Fields[0].Field, qt.Equals, "student_id")

	err = json.Unmarshal([]byte(`{"student_id":`), &target)
	verr = validation.FromBindError(err)
	c.Assert(verr.HasErrors(), qt.IsFalse)
}

func TestEmailOrEmpty(t *testing.T) {
	v := validation.New()
	type patch struct {
		Email *string `json:"email" validate:"omitempty,emailorempty,max=255"`
	}
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name  string
		email *string
		ok    bool
	}{
		{name: "absent", email: nil, ok: true},
		{name: "empty clears", email: ptr(""), ok: true},
		{name: "blank clears", email: ptr("   "), ok: true},
		{name: "valid", email: ptr("ada@school.test"), ok: true},
		{name: "invalid", email: ptr("ada@"), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			err := v.Struct(patch{Email: tt.email})
			if tt.ok {
				c.Assert(err, qt.IsNil)
				return
			}
			verr := validation.FromBindError(err)
			c.Assert(verr.Fields, qt.DeepEquals, []apperrors.FieldError{
				{Field: "email", Message: "must be a valid email address or empty"},
			})
		})
	}
}
