package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// UserService defines the interface for account administration
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	AssignRole(ctx context.Context, actorID, userID int64, role models.Role) (*models.User, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns every account
func (s *userServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

// AssignRole changes a user's role; administrators cannot demote themselves
func (s *userServiceImpl) AssignRole(ctx context.Context, actorID, userID int64, role models.Role) (*models.User, error) {
	role, err := models.ParseRole(string(role))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid role").Add("role", "must be one of: admin, staff, teacher")
	}
	if actorID == userID && role != models.RoleAdmin {
		return nil, apperrors.NewValidationError("Invalid role").Add("role", "administrators cannot remove their own admin role")
	}

	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("actorID", actorID).Int64("userID", userID).Str("role", string(role)).Msg("User role changed")
	return user, nil
}
