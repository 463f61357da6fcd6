package services

import (
	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/auth"
)

// Services holds every business service the HTTP layer depends on
type Services struct {
	Auth      AuthService
	Users     UserService
	Students  StudentService
	Sessions  SessionService
	Analytics AnalyticsService
}

// NewServices wires the services onto a set of repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(repos.Users, jwtService, logger),
		Users:     NewUserService(repos.Users, logger),
		Students:  NewStudentService(repos.Students, logger),
		Sessions:  NewSessionService(repos.Sessions, repos.Students, logger),
		Analytics: NewAnalyticsService(repos.Analytics, logger),
	}
}
