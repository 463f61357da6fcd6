package dto

import (
	"time"

	"github.com/cgmis/guidance/internal/app/models"
)

// UserDetailResponse is the admin view of a user account
type UserDetailResponse struct {
	UserResponse
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserDetailResponse projects a stored user for administrators
func NewUserDetailResponse(u *models.User) UserDetailResponse {
	return UserDetailResponse{
		UserResponse: NewUserResponse(u),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

// UpdateRoleRequest assigns a new role to a user
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required,oneof=admin staff teacher" example:"teacher"`
}
