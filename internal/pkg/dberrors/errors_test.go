package dberrors_test

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cgmis/guidance/internal/pkg/dberrors"
)

func TestClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "counseling_sessions_student_id_fkey"}
	check := &pgconn.PgError{Code: "23514", ConstraintName: "users_role_check"}
	tooLong := &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(20)"}

	tests := []struct {
		name   string
		err    error
		unique bool
		fk     bool
		check  bool
		long   bool
	}{
		{name: "unique violation", err: unique, unique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", unique), unique: true},
		{name: "foreign key violation", err: fk, fk: true},
		{name: "check violation", err: check, check: true},
		{name: "string too long", err: fmt.Errorf("update: %w", tooLong), long: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(dberrors.IsUniqueViolation(tt.err), qt.Equals, tt.unique)
			c.Assert(dberrors.IsForeignKeyViolation(tt.err), qt.Equals, tt.fk)
			c.Assert(dberrors.IsCheckViolation(tt.err), qt.Equals, tt.check)
			c.Assert(dberrors.IsStringTooLong(tt.err), qt.Equals, tt.long)
		})
	}
}

func TestIsDuplicateConstraintError(t *testing.T) {
	c := qt.New(t)

	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	c.Assert(dberrors.IsDuplicateConstraintError(err, "users_email_key"), qt.IsTrue)
	c.Assert(dberrors.IsDuplicateConstraintError(err, "students_email_key"), qt.IsFalse)
}
