package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	authz "github.com/cgmis/guidance/internal/app/auth"
	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/auth"
)

// Context keys set by RequireAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth validates the bearer token and stores its claims on the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidFormat) {
				err = apperrors.ErrTokenInvalid
			}
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole admits only the listed roles; it must run after RequireAuth
func (m *AuthMiddleware) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFrom(c)
		if !ok {
			HandleAPIError(c, apperrors.NewUnauthenticatedError("Unauthenticated"))
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.NewForbiddenError("You don't have sufficient permissions for this operation"))
	}
}

// RequireCapability admits the roles holding capability in the policy table
func (m *AuthMiddleware) RequireCapability(capability authz.Capability) gin.HandlerFunc {
	return m.RequireRole(authz.RolesFor(capability)...)
}

// UserIDFrom returns the authenticated user's ID
func UserIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// RoleFrom returns the authenticated user's role
func RoleFrom(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
