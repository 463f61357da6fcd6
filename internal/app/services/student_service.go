package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/repositories"
)

// StudentService defines the interface for student records
type StudentService interface {
	List(ctx context.Context) ([]*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.IStudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *studentServiceImpl) List(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.List(ctx)
}

func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// Create stores a new student with trimmed names
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := req.ToModel()
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	student.Email = normalizeEmail(student.Email)

	created, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", created.ID).Msg("Student created")
	return created, nil
}

// Update overwrites only the supplied fields
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	patch := req.ToPatch()
	patch.FirstName = trimPtr(patch.FirstName)
	patch.LastName = trimPtr(patch.LastName)
	patch.Email = normalizeEmail(patch.Email)
	if patch.Email != nil && *patch.Email == "" {
		patch.Email = nil
		patch.ClearEmail = true
	}
	return s.studentRepo.Update(ctx, id, patch)
}

// Delete removes a student and, through the store, its sessions
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func normalizeEmail(v *string) *string {
	if v == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*v))
	return &e
}
