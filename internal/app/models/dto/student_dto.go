package dto

import "github.com/cgmis/guidance/internal/app/models"

// CreateStudentRequest represents the data needed to create a student
type CreateStudentRequest struct {
	FirstName      string  `json:"first_name" binding:"required,notblank,max=100" example:"Ada"`
	LastName       string  `json:"last_name" binding:"required,notblank,max=100" example:"Lovelace"`
	Email          *string `json:"email" binding:"omitempty,email,max=255" example:"ada@school.test"`
	GradeLevel     *string `json:"grade_level" binding:"omitempty,max=20" example:"11"`
	CareerInterest *string `json:"career_interest" binding:"omitempty,max=255" example:"Engineering"`
}

// ToModel converts the request into a student row
func (r CreateStudentRequest) ToModel() *models.Student {
	return &models.Student{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		GradeLevel:     r.GradeLevel,
		CareerInterest: r.CareerInterest,
	}
}

// UpdateStudentRequest is a partial update; omitted or null fields are left
// unchanged and an empty email clears the stored address
type UpdateStudentRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,notblank,max=100" example:"Ada"`
	LastName       *string `json:"last_name" binding:"omitempty,notblank,max=100" example:"Byron"`
	Email          *string `json:"email" binding:"omitempty,emailorempty,max=255"`
	GradeLevel     *string `json:"grade_level" binding:"omitempty,max=20"`
	CareerInterest *string `json:"career_interest" binding:"omitempty,max=255"`
}

// ToPatch converts the request into a store patch
func (r UpdateStudentRequest) ToPatch() models.StudentPatch {
	return models.StudentPatch{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		GradeLevel:     r.GradeLevel,
		CareerInterest: r.CareerInterest,
	}
}
