package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/db"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/dberrors"
	"github.com/cgmis/guidance/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "first_name", "last_name", "email", "grade_level", "career_interest", "created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.GradeLevel, &s.CareerInterest, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a student and returns the stored row
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("first_name", "last_name", "email", "grade_level", "career_interest").
		Values(student.FirstName, student.LastName, student.Email, student.GradeLevel, student.CareerInterest).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	created, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentsEmailKey) {
			return nil, apperrors.ErrStudentEmailExists
		}
		if dberrors.IsStringTooLong(err) {
			return nil, apperrors.NewValidationError("Value too long for a student field")
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return created, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

// List returns every student, newest first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// updateQuery builds an UPDATE touching only the supplied fields
func (r *StudentRepository) updateQuery(id int64, patch models.StudentPatch) (string, []interface{}, error) {
	set := map[string]interface{}{}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	switch {
	case patch.ClearEmail:
		set["email"] = nil
	case patch.Email != nil:
		set["email"] = *patch.Email
	}
	if patch.GradeLevel != nil {
		set["grade_level"] = *patch.GradeLevel
	}
	if patch.CareerInterest != nil {
		set["career_interest"] = *patch.CareerInterest
	}

	return r.sb.Update("students").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
}

// Update applies a partial update and returns the updated row
func (r *StudentRepository) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.updateQuery(id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	updated, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentsEmailKey) {
			return nil, apperrors.ErrStudentEmailExists
		}
		if dberrors.IsStringTooLong(err) {
			return nil, apperrors.NewValidationError("Value too long for a student field")
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return updated, nil
}

// Delete removes a student; its sessions go with it through ON DELETE CASCADE
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Exists checks whether a student row exists
func (r *StudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
