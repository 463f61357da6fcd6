package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	FirstName      string    `json:"first_name" db:"first_name" example:"Ada"`
	LastName       string    `json:"last_name" db:"last_name" example:"Lovelace"`
	Email          *string   `json:"email" db:"email" example:"ada@school.test"`
	GradeLevel     *string   `json:"grade_level" db:"grade_level" example:"11"`
	CareerInterest *string   `json:"career_interest" db:"career_interest" example:"Engineering"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentPatch carries the fields of a partial update; nil means unchanged
type StudentPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	GradeLevel     *string
	CareerInterest *string
	// ClearEmail sets email to NULL; Email is ignored when it is set
	ClearEmail bool
}

// IsEmpty reports whether the patch changes nothing
func (p StudentPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.GradeLevel == nil && p.CareerInterest == nil && !p.ClearEmail
}
