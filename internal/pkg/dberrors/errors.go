package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the migrations and the PostgreSQL codes the store layer translates
const (
	UsersEmailKey    = "users_email_key"
	StudentsEmailKey = "students_email_key"

	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeStringTooLong       = "22001"
)

func pgCode(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgCode(err)
	return ok && IsUniqueViolation(pgErr) && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports any unique constraint violation
func IsUniqueViolation(err error) bool {
	pgErr, ok := pgCode(err)
	return ok && pgErr.Code == CodeUniqueViolation
}

// IsForeignKeyViolation reports an insert or update pointing at a missing parent row
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := pgCode(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}

// IsCheckViolation reports a CHECK constraint failure
func IsCheckViolation(err error) bool {
	pgErr, ok := pgCode(err)
	return ok && pgErr.Code == CodeCheckViolation
}

// IsStringTooLong reports a value wider than its VARCHAR column
func IsStringTooLong(err error) bool {
	pgErr, ok := pgCode(err)
	return ok && pgErr.Code == CodeStringTooLong
}
