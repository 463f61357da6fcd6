package models

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// DefaultSessionDuration is used when a session is created without a duration (minutes)
const DefaultSessionDuration = 45

// DefaultSessionType is used when a session is created without a type
const DefaultSessionType = "individual"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(bytes.Trim(b, `"`)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CounselingSession defines a row of 'counseling_sessions' joined with its student's name
type CounselingSession struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	StudentID       int64     `json:"student_id" db:"student_id" example:"1"`
	StudentName     string    `json:"student_name" db:"student_name" example:"Ada Lovelace"`
	CounselorName   string    `json:"counselor_name" db:"counselor_name" example:"Ms. Rivera"`
	SessionDate     Date      `json:"session_date" db:"session_date" swaggertype:"string" example:"2025-03-14"`
	SessionDuration int       `json:"session_duration" db:"session_duration" example:"45"`
	SessionType     string    `json:"session_type" db:"session_type" example:"individual"`
	Notes           *string   `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// SessionPatch carries the fields of a partial session update; nil means unchanged
type SessionPatch struct {
	StudentID       *int64
	CounselorName   *string
	SessionDate     *Date
	SessionDuration *int
	SessionType     *string
	Notes           *string
}

// IsEmpty reports whether the patch changes nothing
func (p SessionPatch) IsEmpty() bool {
	return p.StudentID == nil && p.CounselorName == nil && p.SessionDate == nil &&
		p.SessionDuration == nil && p.SessionType == nil && p.Notes == nil
}
