package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/auth"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong passwords
var ErrInvalidCredentials = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")

// ErrPrivilegedSelfRegistration rejects public sign-ups asking for the admin role
var ErrPrivilegedSelfRegistration = apperrors.NewValidationError("Invalid registration").
	Add("role", "admin accounts can only be created by an administrator")

// AuthService handles authentication and account creation
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	RegisterPrivileged(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and issues a bearer token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Int64("userID", user.ID).Msg("Rejected login with wrong password")
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		// The login itself succeeded
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not record last login")
	}

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtService.TTL().Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}

// Register creates a non-admin account; role defaults to staff
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if role, err := models.ParseRole(string(req.Role)); err == nil && role == models.RoleAdmin {
		return nil, ErrPrivilegedSelfRegistration
	}
	return s.create(ctx, req)
}

// RegisterPrivileged creates an account with any role; callers must be administrators
func (s *authServiceImpl) RegisterPrivileged(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req)
}

func (s *authServiceImpl) create(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	role := models.RoleStaff
	if req.Role != "" {
		parsed, err := models.ParseRole(string(req.Role))
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid registration").Add("role", "must be one of: admin, staff, teacher")
		}
		role = parsed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var fullName *string
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		trimmed := strings.TrimSpace(*req.FullName)
		fullName = &trimmed
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         role,
		FullName:     fullName,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Profile returns the account behind a token
func (s *authServiceImpl) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
