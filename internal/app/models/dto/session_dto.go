package dto

// CreateSessionRequest represents the data needed to log a counseling session
type CreateSessionRequest struct {
	StudentID       int64   `json:"student_id" binding:"required,gt=0" example:"1"`
	CounselorName   string  `json:"counselor_name" binding:"required,notblank,max=255" example:"Ms. Rivera"`
	SessionDate     string  `json:"session_date" binding:"required,isodate" example:"2025-03-14"`
	SessionDuration *int    `json:"session_duration" binding:"omitempty,min=1,max=1440" example:"45"`
	SessionType     *string `json:"session_type" binding:"omitempty,notblank,max=50" example:"individual"`
	Notes           *string `json:"notes" binding:"omitempty,max=5000" example:"Discussed engineering programs"`
}

// UpdateSessionRequest is a partial update; omitted fields are left unchanged
type UpdateSessionRequest struct {
	StudentID       *int64  `json:"student_id" binding:"omitempty,gt=0" example:"1"`
	CounselorName   *string `json:"counselor_name" binding:"omitempty,notblank,max=255"`
	SessionDate     *string `json:"session_date" binding:"omitempty,isodate" example:"2025-03-21"`
	SessionDuration *int    `json:"session_duration" binding:"omitempty,min=1,max=1440" example:"30"`
	SessionType     *string `json:"session_type" binding:"omitempty,notblank,max=50"`
	Notes           *string `json:"notes" binding:"omitempty,max=5000"`
}

// AnalyticsFilter holds the optional date bounds of analytics queries
type AnalyticsFilter struct {
	StartDate string `form:"startDate" binding:"omitempty,isodate" example:"2025-01-01"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate" example:"2025-06-30"`
}

// StudentInsightsFilter optionally narrows insights to one student
type StudentInsightsFilter struct {
	StudentID int64 `form:"studentId" binding:"omitempty,gt=0" example:"1"`
}
