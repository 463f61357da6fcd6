package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/db"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/dberrors"
	"github.com/cgmis/guidance/internal/pkg/logger"
)

var sessionColumns = []string{
	"cs.id",
	"cs.student_id",
	"s.first_name || ' ' || s.last_name AS student_name",
	"cs.counselor_name",
	"cs.session_date",
	"cs.session_duration",
	"cs.session_type",
	"cs.notes",
	"cs.created_at",
	"cs.updated_at",
}

// SessionRepository handles counseling session database operations
type SessionRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(conn db.DBTX) *SessionRepository {
	return &SessionRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func scanSession(row pgx.Row) (*models.CounselingSession, error) {
	cs := &models.CounselingSession{}
	err := row.Scan(
		&cs.ID, &cs.StudentID, &cs.StudentName, &cs.CounselorName, &cs.SessionDate.Time,
		&cs.SessionDuration, &cs.SessionType, &cs.Notes, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *SessionRepository) selectSessions() squirrel.SelectBuilder {
	return r.sb.Select(sessionColumns...).
		From("counseling_sessions cs").
		Join("students s ON s.id = cs.student_id")
}

func (r *SessionRepository) translateWriteError(err error) error {
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrStudentReferenceMissing
	}
	return nil
}

// Create inserts a session and returns its ID
func (r *SessionRepository) Create(ctx context.Context, session *models.CounselingSession) (int64, error) {
	sql, args, err := r.sb.Insert("counseling_sessions").
		Columns("student_id", "counselor_name", "session_date", "session_duration", "session_type", "notes").
		Values(session.StudentID, session.CounselorName, session.SessionDate.Time, session.SessionDuration, session.SessionType, session.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return 0, fmt.Errorf("failed to build create session query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if appErr := r.translateWriteError(err); appErr != nil {
			return 0, appErr
		}
		logger.Error().Err(err).Int64("studentID", session.StudentID).Msg("Error executing create session query")
		return 0, fmt.Errorf("error creating session: %w", err)
	}
	return id, nil
}

// GetByID retrieves a session with its student's name
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.CounselingSession, error) {
	sql, args, err := r.selectSessions().
		Where(squirrel.Eq{"cs.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	cs, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error getting session by ID: %w", err)
	}
	return cs, nil
}

// List returns all sessions, most recent session date first
func (r *SessionRepository) List(ctx context.Context) ([]*models.CounselingSession, error) {
	return r.list(ctx, r.selectSessions())
}

// ListByStudent returns one student's sessions, most recent first
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.CounselingSession, error) {
	return r.list(ctx, r.selectSessions().Where(squirrel.Eq{"cs.student_id": studentID}))
}

func (r *SessionRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.CounselingSession, error) {
	sql, args, err := q.OrderBy("cs.session_date DESC", "cs.created_at DESC", "cs.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list sessions query")
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.CounselingSession{}
	for rows.Next() {
		cs, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

// updateQuery builds an UPDATE touching only the supplied fields
func (r *SessionRepository) updateQuery(id int64, patch models.SessionPatch) (string, []interface{}, error) {
	set := map[string]interface{}{}
	if patch.StudentID != nil {
		set["student_id"] = *patch.StudentID
	}
	if patch.CounselorName != nil {
		set["counselor_name"] = *patch.CounselorName
	}
	if patch.SessionDate != nil {
		set["session_date"] = patch.SessionDate.Time
	}
	if patch.SessionDuration != nil {
		set["session_duration"] = *patch.SessionDuration
	}
	if patch.SessionType != nil {
		set["session_type"] = *patch.SessionType
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	return r.sb.Update("counseling_sessions").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

// Update applies a partial update
func (r *SessionRepository) Update(ctx context.Context, id int64, patch models.SessionPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	sql, args, err := r.updateQuery(id, patch)
	if err != nil {
		return fmt.Errorf("failed to build update session query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if appErr := r.translateWriteError(err); appErr != nil {
			return appErr
		}
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error executing update session query")
		return fmt.Errorf("error updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("counseling_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error executing delete session query")
		return fmt.Errorf("error deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}
