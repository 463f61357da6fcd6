package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/db"
	"github.com/cgmis/guidance/internal/pkg/logger"
)

const avgDurationExpr = "COALESCE(ROUND(AVG(%s)::numeric, 1), 0)::float8"

// AnalyticsRepository runs the read-only aggregation queries
type AnalyticsRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(conn db.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// dateRangeFilter bounds column by the range; nil when the range is open on both ends
func dateRangeFilter(column string, r models.DateRange) squirrel.Sqlizer {
	var conds squirrel.And
	if r.Start != nil {
		conds = append(conds, squirrel.GtOrEq{column: r.Start.Time})
	}
	if r.End != nil {
		conds = append(conds, squirrel.LtOrEq{column: r.End.Time})
	}
	if len(conds) == 0 {
		return nil
	}
	return conds
}

func withRange(q squirrel.SelectBuilder, column string, r models.DateRange) squirrel.SelectBuilder {
	if f := dateRangeFilter(column, r); f != nil {
		return q.Where(f)
	}
	return q
}

// queryRows runs q and hands each row to scan
func (r *AnalyticsRepository) queryRows(ctx context.Context, name string, q squirrel.Sqlizer, scan func(pgx.Rows) error) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", name, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", name).Msg("Error executing analytics query")
		return fmt.Errorf("error querying %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("error scanning %s row: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s rows: %w", name, err)
	}
	return nil
}

// Totals reads the v_totals view
func (r *AnalyticsRepository) Totals(ctx context.Context) (models.Totals, error) {
	var t models.Totals
	sql, args, err := r.sb.Select("total_students", "total_sessions", "active_counselors", "students_with_sessions").
		From("v_totals").
		ToSql()
	if err != nil {
		return t, fmt.Errorf("failed to build totals query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.TotalStudents, &t.TotalSessions, &t.ActiveCounselors, &t.StudentsWithSessions)
	if err != nil {
		logger.Error().Err(err).Msg("Error reading totals view")
		return t, fmt.Errorf("error reading totals: %w", err)
	}
	return t, nil
}

// SessionsByCounselor reads the v_sessions_by_counselor view
func (r *AnalyticsRepository) SessionsByCounselor(ctx context.Context) ([]models.CounselorCount, error) {
	q := r.sb.Select("counselor_name", "sessions_count").
		From("v_sessions_by_counselor").
		OrderBy("sessions_count DESC", "counselor_name")

	out := []models.CounselorCount{}
	err := r.queryRows(ctx, "sessions by counselor", q, func(rows pgx.Rows) error {
		var c models.CounselorCount
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// StudentsByInterest groups students by non-empty career interest
func (r *AnalyticsRepository) StudentsByInterest(ctx context.Context) ([]models.InterestCount, error) {
	q := r.sb.Select("career_interest", "COUNT(*) AS count").
		From("students").
		Where("career_interest IS NOT NULL AND career_interest <> ''").
		GroupBy("career_interest").
		OrderBy("count DESC", "career_interest")

	out := []models.InterestCount{}
	err := r.queryRows(ctx, "students by interest", q, func(rows pgx.Rows) error {
		var ic models.InterestCount
		if err := rows.Scan(&ic.Interest, &ic.Count); err != nil {
			return err
		}
		out = append(out, ic)
		return nil
	})
	return out, err
}

// RecentActivity returns the latest sessions, notes as description
func (r *AnalyticsRepository) RecentActivity(ctx context.Context, limit uint64) ([]models.RecentActivity, error) {
	q := r.sb.Select(
		"cs.id",
		"cs.session_date",
		"s.first_name || ' ' || s.last_name AS student_name",
		"cs.counselor_name",
		"cs.notes",
	).
		From("counseling_sessions cs").
		Join("students s ON s.id = cs.student_id").
		OrderBy("cs.session_date DESC", "cs.created_at DESC", "cs.id DESC").
		Limit(limit)

	out := []models.RecentActivity{}
	err := r.queryRows(ctx, "recent activity", q, func(rows pgx.Rows) error {
		var a models.RecentActivity
		if err := rows.Scan(&a.ID, &a.Date.Time, &a.StudentName, &a.CounselorName, &a.Description); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) overviewQuery(rng models.DateRange) squirrel.SelectBuilder {
	q := r.sb.Select(
		"(SELECT COUNT(*) FROM students) AS total_students",
		"COUNT(cs.id) AS total_sessions",
		"COUNT(DISTINCT cs.student_id) FILTER (WHERE cs.session_date >= CURRENT_DATE - 30) AS active_students",
		fmt.Sprintf(avgDurationExpr, "cs.session_duration")+" AS avg_session_duration",
		"COUNT(DISTINCT cs.counselor_name) AS total_counselors",
		"COUNT(cs.id) FILTER (WHERE date_trunc('month', cs.session_date) = date_trunc('month', CURRENT_DATE)) AS sessions_this_month",
	).
		From("counseling_sessions cs")
	return withRange(q, "cs.session_date", rng)
}

// Overview computes the headline numbers; student total ignores the range
func (r *AnalyticsRepository) Overview(ctx context.Context, rng models.DateRange) (models.Overview, error) {
	var o models.Overview
	sql, args, err := r.overviewQuery(rng).ToSql()
	if err != nil {
		return o, fmt.Errorf("failed to build overview query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&o.TotalStudents, &o.TotalSessions, &o.ActiveStudents,
		&o.AvgSessionDuration, &o.TotalCounselors, &o.SessionsThisMonth,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing overview query")
		return o, fmt.Errorf("error computing overview: %w", err)
	}
	return o, nil
}

func (r *AnalyticsRepository) monthlyTrendsQuery(rng models.DateRange, limit uint64) squirrel.SelectBuilder {
	q := r.sb.Select(
		"to_char(date_trunc('month', session_date), 'YYYY-MM') AS month",
		"COUNT(*) AS sessions",
		"COUNT(DISTINCT student_id) AS unique_students",
		"COUNT(DISTINCT counselor_name) AS unique_counselors",
	).
		From("counseling_sessions")
	return withRange(q, "session_date", rng).
		GroupBy("month").
		OrderBy("month DESC").
		Limit(limit)
}

// MonthlyTrends aggregates sessions per calendar month, newest month first
func (r *AnalyticsRepository) MonthlyTrends(ctx context.Context, rng models.DateRange, limit uint64) ([]models.MonthlyTrend, error) {
	out := []models.MonthlyTrend{}
	err := r.queryRows(ctx, "monthly trends", r.monthlyTrendsQuery(rng, limit), func(rows pgx.Rows) error {
		var m models.MonthlyTrend
		if err := rows.Scan(&m.Month, &m.Sessions, &m.UniqueStudents, &m.UniqueCounselors); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) topStudentsQuery(rng models.DateRange, limit uint64) squirrel.SelectBuilder {
	join := "counseling_sessions cs ON cs.student_id = s.id"
	var args []interface{}
	if rng.Start != nil {
		join += " AND cs.session_date >= ?"
		args = append(args, rng.Start.Time)
	}
	if rng.End != nil {
		join += " AND cs.session_date <= ?"
		args = append(args, rng.End.Time)
	}

	return r.sb.Select(
		"s.id",
		"s.first_name || ' ' || s.last_name AS student_name",
		"COUNT(cs.id) AS session_count",
		"MAX(cs.session_date) AS last_session",
	).
		From("students s").
		LeftJoin(join, args...).
		GroupBy("s.id", "s.first_name", "s.last_name").
		OrderBy("session_count DESC", "s.id").
		Limit(limit)
}

// TopStudents ranks students by the number of sessions inside the range
func (r *AnalyticsRepository) TopStudents(ctx context.Context, rng models.DateRange, limit uint64) ([]models.TopStudent, error) {
	out := []models.TopStudent{}
	err := r.queryRows(ctx, "top students", r.topStudentsQuery(rng, limit), func(rows pgx.Rows) error {
		var ts models.TopStudent
		var last *time.Time
		if err := rows.Scan(&ts.ID, &ts.StudentName, &ts.SessionCount, &last); err != nil {
			return err
		}
		ts.LastSession = toDatePtr(last)
		out = append(out, ts)
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) counselorStatsQuery(rng models.DateRange) squirrel.SelectBuilder {
	q := r.sb.Select(
		"counselor_name",
		"COUNT(*) AS total_sessions",
		"COUNT(DISTINCT student_id) AS unique_students",
		fmt.Sprintf(avgDurationExpr, "session_duration")+" AS avg_duration",
		"COUNT(*) FILTER (WHERE session_date >= CURRENT_DATE - 30) AS recent_sessions",
	).
		From("counseling_sessions")
	return withRange(q, "session_date", rng).
		GroupBy("counselor_name").
		OrderBy("total_sessions DESC", "counselor_name")
}

// CounselorStats summarizes each counselor's workload inside the range
func (r *AnalyticsRepository) CounselorStats(ctx context.Context, rng models.DateRange) ([]models.CounselorStat, error) {
	out := []models.CounselorStat{}
	err := r.queryRows(ctx, "counselor stats", r.counselorStatsQuery(rng), func(rows pgx.Rows) error {
		var cs models.CounselorStat
		if err := rows.Scan(&cs.CounselorName, &cs.TotalSessions, &cs.UniqueStudents, &cs.AvgDuration, &cs.RecentSessions); err != nil {
			return err
		}
		out = append(out, cs)
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) studentInsightsQuery(studentID *int64) squirrel.SelectBuilder {
	q := r.sb.Select(
		"s.id",
		"s.first_name || ' ' || s.last_name AS student_name",
		"s.grade_level",
		"s.career_interest",
		"COUNT(cs.id) AS total_sessions",
		"MIN(cs.session_date) AS first_session",
		"MAX(cs.session_date) AS last_session",
		fmt.Sprintf(avgDurationExpr, "cs.session_duration")+" AS avg_session_duration",
		"COUNT(DISTINCT cs.counselor_name) AS counselors_seen",
	).
		From("students s").
		LeftJoin("counseling_sessions cs ON cs.student_id = s.id")
	if studentID != nil {
		q = q.Where(squirrel.Eq{"s.id": *studentID})
	}
	return q.GroupBy("s.id").OrderBy("total_sessions DESC", "s.id")
}

// StudentInsights returns per-student counseling summaries, optionally for one student
func (r *AnalyticsRepository) StudentInsights(ctx context.Context, studentID *int64) ([]models.StudentInsight, error) {
	out := []models.StudentInsight{}
	err := r.queryRows(ctx, "student insights", r.studentInsightsQuery(studentID), func(rows pgx.Rows) error {
		var si models.StudentInsight
		var first, last *time.Time
		err := rows.Scan(
			&si.ID, &si.StudentName, &si.GradeLevel, &si.CareerInterest, &si.TotalSessions,
			&first, &last, &si.AvgSessionDuration, &si.CounselorsSeen,
		)
		if err != nil {
			return err
		}
		si.FirstSession = toDatePtr(first)
		si.LastSession = toDatePtr(last)
		out = append(out, si)
		return nil
	})
	return out, err
}
