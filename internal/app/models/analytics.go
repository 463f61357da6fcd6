package models

// DateRange bounds session dates; a nil end is open
type DateRange struct {
	Start *Date
	End   *Date
}

// Totals mirrors the v_totals view
type Totals struct {
	TotalStudents        int64
	TotalSessions        int64
	ActiveCounselors     int64
	StudentsWithSessions int64
}

// CompletionRate is the percentage of students with at least one session, one decimal
func (t Totals) CompletionRate() float64 {
	if t.TotalStudents == 0 {
		return 0
	}
	rate := float64(t.StudentsWithSessions) * 100 / float64(t.TotalStudents)
	return float64(int64(rate*10+0.5)) / 10
}

// CounselorCount is one bar of the sessions-by-counselor chart
type CounselorCount struct {
	Name  string `json:"name" example:"Ms. Rivera"`
	Value int64  `json:"value" example:"12"`
}

// InterestCount is one slice of the students-by-interest chart
type InterestCount struct {
	Interest string `json:"interest" example:"Engineering"`
	Count    int64  `json:"count" example:"4"`
}

// RecentActivity is a compact view of a recent session
type RecentActivity struct {
	ID            int64   `json:"id"`
	Date          Date    `json:"date" swaggertype:"string" example:"2025-03-14"`
	StudentName   string  `json:"student_name"`
	CounselorName string  `json:"counselor_name"`
	Description   *string `json:"description"`
}

// Dashboard is the payload of the metrics dashboard
type Dashboard struct {
	TotalStudents       int64            `json:"totalStudents"`
	TotalSessions       int64            `json:"totalSessions"`
	ActiveCounselors    int64            `json:"activeCounselors"`
	CompletionRate      float64          `json:"completionRate"`
	StudentsByInterest  []InterestCount  `json:"studentsByInterest"`
	SessionsByCounselor []CounselorCount `json:"sessionsByCounselor"`
	RecentActivity      []RecentActivity `json:"recentActivity"`
}

// Overview holds headline analytics numbers
type Overview struct {
	TotalStudents      int64   `json:"totalStudents"`
	TotalSessions      int64   `json:"totalSessions"`
	ActiveStudents     int64   `json:"activeStudents"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	TotalCounselors    int64   `json:"totalCounselors"`
	SessionsThisMonth  int64   `json:"sessionsThisMonth"`
}

// MonthlyTrend aggregates sessions per calendar month (YYYY-MM)
type MonthlyTrend struct {
	Month            string `json:"month" example:"2025-03"`
	Sessions         int64  `json:"sessions"`
	UniqueStudents   int64  `json:"uniqueStudents"`
	UniqueCounselors int64  `json:"uniqueCounselors"`
}

// TopStudent ranks students by session count
type TopStudent struct {
	ID           int64  `json:"id"`
	StudentName  string `json:"student_name"`
	SessionCount int64  `json:"session_count"`
	LastSession  *Date  `json:"last_session" swaggertype:"string"`
}

// CounselorStat summarizes a counselor's workload
type CounselorStat struct {
	CounselorName  string  `json:"counselor_name"`
	TotalSessions  int64   `json:"total_sessions"`
	UniqueStudents int64   `json:"unique_students"`
	AvgDuration    float64 `json:"avg_duration"`
	RecentSessions int64   `json:"recent_sessions"`
}

// AnalyticsOverview is the payload of the analytics overview endpoint
type AnalyticsOverview struct {
	Overview       Overview        `json:"overview"`
	MonthlyTrends  []MonthlyTrend  `json:"monthlyTrends"`
	TopStudents    []TopStudent    `json:"topStudents"`
	CounselorStats []CounselorStat `json:"counselorStats"`
}

// StudentInsight summarizes one student's counseling history
type StudentInsight struct {
	ID                 int64   `json:"id"`
	StudentName        string  `json:"student_name"`
	GradeLevel         *string `json:"grade_level"`
	CareerInterest     *string `json:"career_interest"`
	TotalSessions      int64   `json:"total_sessions"`
	FirstSession       *Date   `json:"first_session" swaggertype:"string"`
	LastSession        *Date   `json:"last_session" swaggertype:"string"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
	CounselorsSeen     int64   `json:"counselors_seen"`
}
