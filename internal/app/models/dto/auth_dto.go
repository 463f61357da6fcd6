package dto

import "github.com/cgmis/guidance/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@cgmis.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email" example:"new.staff@cgmis.local"`
	Password string      `json:"password" binding:"required,min=6" example:"secret1"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=admin staff teacher" example:"staff"`
	FullName *string     `json:"full_name" binding:"omitempty,max=255" example:"Jane Counselor"`
}

// UserResponse is the public projection of a user
type UserResponse struct {
	ID       int64       `json:"id" example:"1"`
	Email    string      `json:"email" example:"staff@cgmis.local"`
	Role     models.Role `json:"role" example:"staff"`
	FullName *string     `json:"full_name" example:"Jane Counselor"`
}

// NewUserResponse projects a stored user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		FullName: u.FullName,
	}
}

// LoginResponse carries the bearer token and the logged-in user
type LoginResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn int64        `json:"expires_in" example:"86400"`
	User      UserResponse `json:"user"`
}
