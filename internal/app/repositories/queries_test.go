package repositories

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/app/models"
)

func strPtr(s string) *string { return &s }

func mustDate(c *qt.C, s string) *models.Date {
	d, err := models.ParseDate(s)
	c.Assert(err, qt.IsNil)
	return &d
}

func TestStudentUpdateQueryOnlyTouchesSuppliedFields(t *testing.T) {
	c := qt.New(t)
	repo := NewStudentRepository(nil)

	sql, args, err := repo.updateQuery(7, models.StudentPatch{LastName: strPtr("Byron")})
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Matches, `UPDATE students SET last_name = \$1 WHERE id = \$2 RETURNING .*`)
	c.Assert(args, qt.DeepEquals, []interface{}{"Byron", int64(7)})
	c.Assert(strings.Contains(sql, "first_name ="), qt.IsFalse)
	c.Assert(strings.Contains(sql, "career_interest ="), qt.IsFalse)
}

func TestStudentUpdateQueryClearsEmail(t *testing.T) {
	c := qt.New(t)
	repo := NewStudentRepository(nil)

	sql, args, err := repo.updateQuery(5, models.StudentPatch{ClearEmail: true, Email: strPtr("ignored@school.test")})
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Matches, `UPDATE students SET email = \$1 WHERE id = \$2 RETURNING .*`)
	c.Assert(args, qt.DeepEquals, []interface{}{nil, int64(5)})
}

func TestSessionUpdateQuery(t *testing.T) {
	c := qt.New(t)
	repo := NewSessionRepository(nil)
	studentID := int64(3)
	duration := 30

	sql, args, err := repo.updateQuery(11, models.SessionPatch{
		StudentID:       &studentID,
		SessionDuration: &duration,
		SessionDate:     mustDate(c, "2025-03-14"),
	})
	c.Assert(err, qt.IsNil)
	// SetMap orders columns alphabetically
	c.Assert(sql, qt.Equals, "UPDATE counseling_sessions SET session_date = $1, session_duration = $2, student_id = $3 WHERE id = $4")
	c.Assert(args, qt.HasLen, 4)
	c.Assert(args[0], qt.Equals, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	c.Assert(args[3], qt.Equals, int64(11))
}

func TestDateRangeFilter(t *testing.T) {
	c := qt.New(t)

	c.Assert(dateRangeFilter("session_date", models.DateRange{}), qt.IsNil)

	tests := []struct {
		name    string
		rng     models.DateRange
		wantSQL string
		nargs   int
	}{
		{"start only", models.DateRange{Start: mustDate(c, "2025-01-01")}, "(session_date >= ?)", 1},
		{"end only", models.DateRange{End: mustDate(c, "2025-06-30")}, "(session_date <= ?)", 1},
		{"both", models.DateRange{Start: mustDate(c, "2025-01-01"), End: mustDate(c, "2025-06-30")}, "(session_date >= ? AND session_date <= ?)", 2},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			sql, args, err := dateRangeFilter("session_date", tt.rng).ToSql()
			c.Assert(err, qt.IsNil)
			c.Assert(sql, qt.Equals, tt.wantSQL)
			c.Assert(args, qt.HasLen, tt.nargs)
		})
	}
}

func TestOverviewQueryWithoutRangeHasNoWhere(t *testing.T) {
	c := qt.New(t)
	repo := NewAnalyticsRepository(nil)

	sql, args, err := repo.overviewQuery(models.DateRange{}).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasSuffix(sql, "FROM counseling_sessions cs"), qt.IsTrue)
	c.Assert(args, qt.HasLen, 0)

	sql, args, err = repo.overviewQuery(models.DateRange{Start: mustDate(c, "2025-01-01")}).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Contains, "WHERE (cs.session_date >= $1)")
	c.Assert(args, qt.HasLen, 1)
}

func TestTopStudentsQueryFiltersInsideJoin(t *testing.T) {
	c := qt.New(t)
	repo := NewAnalyticsRepository(nil)

	rng := models.DateRange{Start: mustDate(c, "2025-01-01"), End: mustDate(c, "2025-03-31")}
	sql, args, err := repo.topStudentsQuery(rng, 10).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Contains, "LEFT JOIN counseling_sessions cs ON cs.student_id = s.id AND cs.session_date >= $1 AND cs.session_date <= $2")
	c.Assert(sql, qt.Contains, "ORDER BY session_count DESC, s.id LIMIT 10")
	c.Assert(strings.Contains(sql, "WHERE"), qt.IsFalse)
	c.Assert(args, qt.HasLen, 2)
}

func TestMonthlyTrendsQuery(t *testing.T) {
	c := qt.New(t)
	repo := NewAnalyticsRepository(nil)

	sql, _, err := repo.monthlyTrendsQuery(models.DateRange{End: mustDate(c, "2025-12-31")}, 12).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Contains, "to_char(date_trunc('month', session_date), 'YYYY-MM') AS month")
	c.Assert(sql, qt.Contains, "WHERE (session_date <= $1) GROUP BY month ORDER BY month DESC LIMIT 12")
}

func TestStudentInsightsQuery(t *testing.T) {
	c := qt.New(t)
	repo := NewAnalyticsRepository(nil)

	sql, args, err := repo.studentInsightsQuery(nil).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(sql, "WHERE"), qt.IsFalse)
	c.Assert(args, qt.HasLen, 0)

	id := int64(5)
	sql, args, err = repo.studentInsightsQuery(&id).ToSql()
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Contains, "WHERE s.id = $1 GROUP BY s.id")
	c.Assert(args, qt.DeepEquals, []interface{}{int64(5)})
}

func TestToDatePtr(t *testing.T) {
	c := qt.New(t)
	c.Assert(toDatePtr(nil), qt.IsNil)

	ts := time.Date(2025, 2, 3, 15, 4, 5, 0, time.UTC)
	d := toDatePtr(&ts)
	c.Assert(d, qt.Not(qt.IsNil))
	c.Assert(d.String(), qt.Equals, "2025-02-03")
}
