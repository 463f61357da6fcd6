package models_test

import (
	"encoding/json"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/app/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{in: "admin", want: models.RoleAdmin},
		{in: " Staff ", want: models.RoleStaff},
		{in: "TEACHER", want: models.RoleTeacher},
		{in: "principal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := qt.New(t)
			got, err := models.ParseRole(tt.in)
			if tt.wantErr {
				c.Assert(err, qt.IsNotNil)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestRoleUnmarshalJSON(t *testing.T) {
	c := qt.New(t)

	var req struct {
		Role models.Role `json:"role"`
	}
	c.Assert(json.Unmarshal([]byte(`{"role":" Teacher "}`), &req), qt.IsNil)
	c.Assert(req.Role, qt.Equals, models.RoleTeacher)

	c.Assert(json.Unmarshal([]byte(`{"role":"Principal"}`), &req), qt.IsNil)
	c.Assert(req.Role, qt.Equals, models.Role("principal"))
	c.Assert(req.Role.IsValid(), qt.IsFalse)

	req.Role = models.RoleStaff
	c.Assert(json.Unmarshal([]byte(`{"role":null}`), &req), qt.IsNil)
	c.Assert(req.Role, qt.Equals, models.RoleStaff)

	c.Assert(json.Unmarshal([]byte(`{"role":5}`), &req), qt.ErrorMatches, `.*cannot unmarshal number.*`)
}

func TestDateJSON(t *testing.T) {
	c := qt.New(t)

	d, err := models.ParseDate("2025-03-14")
	c.Assert(err, qt.IsNil)

	b, err := json.Marshal(d)
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, `"2025-03-14"`)

	var back models.Date
	c.Assert(json.Unmarshal([]byte(`"2025-03-14T09:30:00Z"`), &back), qt.IsNil)
	c.Assert(back.String(), qt.Equals, "2025-03-14")

	zero, err := json.Marshal(models.Date{})
	c.Assert(err, qt.IsNil)
	c.Assert(string(zero), qt.Equals, "null")

	_, err = models.ParseDate("14/03/2025")
	c.Assert(err, qt.ErrorMatches, `invalid date "14/03/2025".*`)
}

func TestNewDateTruncates(t *testing.T) {
	c := qt.New(t)

	d := models.NewDate(time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC))
	c.Assert(d.Hour(), qt.Equals, 0)
	c.Assert(d.String(), qt.Equals, "2025-03-14")
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name   string
		totals models.Totals
		want   float64
	}{
		{name: "no students", totals: models.Totals{}, want: 0},
		{name: "all counseled", totals: models.Totals{TotalStudents: 4, StudentsWithSessions: 4}, want: 100},
		{name: "two of three", totals: models.Totals{TotalStudents: 3, StudentsWithSessions: 2}, want: 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.New(t).Assert(tt.totals.CompletionRate(), qt.Equals, tt.want)
		})
	}
}

func TestPatchIsEmpty(t *testing.T) {
	c := qt.New(t)

	c.Assert(models.StudentPatch{}.IsEmpty(), qt.IsTrue)
	last := "B"
	c.Assert(models.StudentPatch{LastName: &last}.IsEmpty(), qt.IsFalse)

	c.Assert(models.SessionPatch{}.IsEmpty(), qt.IsTrue)
	dur := 30
	c.Assert(models.SessionPatch{SessionDuration: &dur}.IsEmpty(), qt.IsFalse)
}
