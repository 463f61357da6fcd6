package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// SessionService defines the interface for counseling sessions
type SessionService interface {
	List(ctx context.Context) ([]*models.CounselingSession, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.CounselingSession, error)
	Get(ctx context.Context, id int64) (*models.CounselingSession, error)
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*models.CounselingSession, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSessionRequest) (*models.CounselingSession, error)
	Delete(ctx context.Context, id int64) error
}

// sessionServiceImpl implements SessionService
type sessionServiceImpl struct {
	sessionRepo repositories.ISessionRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repositories.ISessionRepository, studentRepo repositories.IStudentRepository, logger zerolog.Logger) SessionService {
	return &sessionServiceImpl{
		sessionRepo: sessionRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *sessionServiceImpl) List(ctx context.Context) ([]*models.CounselingSession, error) {
	return s.sessionRepo.List(ctx)
}

// ListByStudent returns an empty list for unknown students
func (s *sessionServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]*models.CounselingSession, error) {
	return s.sessionRepo.ListByStudent(ctx, studentID)
}

func (s *sessionServiceImpl) Get(ctx context.Context, id int64) (*models.CounselingSession, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

func (s *sessionServiceImpl) requireStudent(ctx context.Context, id int64) error {
	exists, err := s.studentRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking student: %w", err)
	}
	if !exists {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func parseSessionDate(raw string) (models.Date, error) {
	d, err := models.ParseDate(raw)
	if err != nil {
		return d, apperrors.NewValidationError("Invalid request").Add("session_date", "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// Create checks the student exists, applies defaults and stores the session
func (s *sessionServiceImpl) Create(ctx context.Context, req *dto.CreateSessionRequest) (*models.CounselingSession, error) {
	date, err := parseSessionDate(req.SessionDate)
	if err != nil {
		return nil, err
	}
	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	session := &models.CounselingSession{
		StudentID:       req.StudentID,
		CounselorName:   strings.TrimSpace(req.CounselorName),
		SessionDate:     date,
		SessionDuration: models.DefaultSessionDuration,
		SessionType:     models.DefaultSessionType,
		Notes:           req.Notes,
	}
	if req.SessionDuration != nil {
		session.SessionDuration = *req.SessionDuration
	}
	if req.SessionType != nil {
		session.SessionType = strings.TrimSpace(*req.SessionType)
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("sessionID", id).Int64("studentID", req.StudentID).Msg("Counseling session created")
	return s.sessionRepo.GetByID(ctx, id)
}

// Update re-validates a supplied student_id and overwrites only supplied fields
func (s *sessionServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateSessionRequest) (*models.CounselingSession, error) {
	if _, err := s.sessionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	patch := models.SessionPatch{
		StudentID:       req.StudentID,
		CounselorName:   trimPtr(req.CounselorName),
		SessionDuration: req.SessionDuration,
		SessionType:     trimPtr(req.SessionType),
		Notes:           req.Notes,
	}
	if req.SessionDate != nil {
		date, err := parseSessionDate(*req.SessionDate)
		if err != nil {
			return nil, err
		}
		patch.SessionDate = &date
	}
	if patch.StudentID != nil {
		if err := s.requireStudent(ctx, *patch.StudentID); err != nil {
			return nil, err
		}
	}

	if err := s.sessionRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, id)
}

func (s *sessionServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("sessionID", id).Msg("Counseling session deleted")
	return nil
}
