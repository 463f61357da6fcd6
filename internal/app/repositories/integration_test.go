package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/migrations"
	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// openTestDB connects to CGMIS_TEST_DATABASE_URL, migrates and empties the schema
func openTestDB(c *qt.C) *pgxpool.Pool {
	url := os.Getenv("CGMIS_TEST_DATABASE_URL")
	if url == "" {
		c.Skip("CGMIS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	c.Assert(err, qt.IsNil)
	c.Cleanup(pool.Close)

	_, err = migrations.NewMigrator(pool, zerolog.Nop()).Migrate(ctx, migrations.Files())
	c.Assert(err, qt.IsNil)

	_, err = pool.Exec(ctx, "TRUNCATE counseling_sessions, students, users RESTART IDENTITY CASCADE")
	c.Assert(err, qt.IsNil)
	return pool
}

func strPtr(s string) *string { return &s }

func date(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPostgresUsers(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repos := repositories.NewRepositories(openTestDB(c))

	u, err := repos.Users.Create(ctx, &models.User{Email: "Staff@CGMIS.local", PasswordHash: "x", Role: models.RoleStaff})
	c.Assert(err, qt.IsNil)
	c.Assert(u.Email, qt.Equals, "staff@cgmis.local")

	_, err = repos.Users.Create(ctx, &models.User{Email: "staff@cgmis.local", PasswordHash: "y", Role: models.RoleTeacher})
	c.Assert(err, qt.ErrorIs, apperrors.ErrEmailAlreadyExists)

	got, err := repos.Users.GetByEmail(ctx, "STAFF@cgmis.local")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, u.ID)

	c.Assert(repos.Users.TouchLastLogin(ctx, u.ID, time.Now()), qt.IsNil)
	updated, err := repos.Users.UpdateRole(ctx, u.ID, models.RoleTeacher)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Role, qt.Equals, models.RoleTeacher)
	c.Assert(updated.LastLoginAt, qt.IsNotNil)

	_, err = repos.Users.GetByID(ctx, 9999)
	c.Assert(err, qt.ErrorIs, apperrors.ErrUserNotFound)
}

func TestPostgresStudentsAndSessions(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repos := repositories.NewRepositories(openTestDB(c))

	ada, err := repos.Students.Create(ctx, &models.Student{FirstName: "Ada", LastName: "Lovelace", Email: strPtr("ada@school.test")})
	c.Assert(err, qt.IsNil)
	_, err = repos.Students.Create(ctx, &models.Student{FirstName: "Other", LastName: "Ada", Email: strPtr("ADA@school.test")})
	c.Assert(err, qt.ErrorIs, apperrors.ErrStudentEmailExists)

	// students without email never collide
	_, err = repos.Students.Create(ctx, &models.Student{FirstName: "No", LastName: "Email"})
	c.Assert(err, qt.IsNil)
	_, err = repos.Students.Create(ctx, &models.Student{FirstName: "Also", LastName: "None"})
	c.Assert(err, qt.IsNil)

	updated, err := repos.Students.Update(ctx, ada.ID, models.StudentPatch{CareerInterest: strPtr("Engineering")})
	c.Assert(err, qt.IsNil)
	c.Assert(*updated.CareerInterest, qt.Equals, "Engineering")
	c.Assert(updated.FirstName, qt.Equals, "Ada")
	c.Assert(updated.UpdatedAt.After(ada.UpdatedAt) || updated.UpdatedAt.Equal(ada.UpdatedAt), qt.IsTrue)

	first, err := repos.Sessions.Create(ctx, &models.CounselingSession{
		StudentID: ada.ID, CounselorName: "Ms. Rivera", SessionDate: date("2025-03-14"),
		SessionDuration: 45, SessionType: "individual",
	})
	c.Assert(err, qt.IsNil)
	second, err := repos.Sessions.Create(ctx, &models.CounselingSession{
		StudentID: ada.ID, CounselorName: "Mr. Osei", SessionDate: date("2025-04-01"),
		SessionDuration: 30, SessionType: "group",
	})
	c.Assert(err, qt.IsNil)

	_, err = repos.Sessions.Create(ctx, &models.CounselingSession{
		StudentID: 9999, CounselorName: "Ms. Rivera", SessionDate: date("2025-03-14"),
		SessionDuration: 45, SessionType: "individual",
	})
	c.Assert(err, qt.ErrorIs, apperrors.ErrStudentReferenceMissing)

	list, err := repos.Sessions.ListByStudent(ctx, ada.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
	c.Assert(list[0].ID, qt.Equals, second)
	c.Assert(list[0].StudentName, qt.Equals, "Ada Lovelace")

	c.Assert(repos.Sessions.Update(ctx, first, models.SessionPatch{Notes: strPtr("Follow-up booked")}), qt.IsNil)
	got, err := repos.Sessions.GetByID(ctx, first)
	c.Assert(err, qt.IsNil)
	c.Assert(*got.Notes, qt.Equals, "Follow-up booked")
	c.Assert(got.SessionDate.String(), qt.Equals, "2025-03-14")

	totals, err := repos.Analytics.Totals(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(totals, qt.Equals, models.Totals{TotalStudents: 3, TotalSessions: 2, ActiveCounselors: 2, StudentsWithSessions: 1})

	start := date("2025-04-01")
	overview, err := repos.Analytics.Overview(ctx, models.DateRange{Start: &start})
	c.Assert(err, qt.IsNil)
	c.Assert(overview.TotalStudents, qt.Equals, int64(3))
	c.Assert(overview.TotalSessions, qt.Equals, int64(1))
	c.Assert(overview.AvgSessionDuration, qt.Equals, 30.0)

	insights, err := repos.Analytics.StudentInsights(ctx, &ada.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(insights, qt.HasLen, 1)
	c.Assert(insights[0].TotalSessions, qt.Equals, int64(2))
	c.Assert(insights[0].AvgSessionDuration, qt.Equals, 37.5)

	c.Assert(repos.Students.Delete(ctx, ada.ID), qt.IsNil)
	_, err = repos.Sessions.GetByID(ctx, first)
	c.Assert(err, qt.ErrorIs, apperrors.ErrSessionNotFound)
	c.Assert(repos.Students.Delete(ctx, ada.ID), qt.ErrorIs, apperrors.ErrStudentNotFound)
}

func TestPostgresStudentFieldWidths(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repos := repositories.NewRepositories(openTestDB(c))

	grade := "Grade 11 / Year 12 A"
	c.Assert(grade, qt.HasLen, 20)
	s, err := repos.Students.Create(ctx, &models.Student{FirstName: "Wide", LastName: "Grade", GradeLevel: &grade})
	c.Assert(err, qt.IsNil)
	c.Assert(*s.GradeLevel, qt.Equals, grade)

	tooWide := grade + "B"
	_, err = repos.Students.Create(ctx, &models.Student{FirstName: "Too", LastName: "Wide", GradeLevel: &tooWide})
	c.Assert(err, qt.ErrorIs, apperrors.ErrValidationFailed)

	_, err = repos.Students.Update(ctx, s.ID, models.StudentPatch{GradeLevel: &tooWide})
	c.Assert(err, qt.ErrorIs, apperrors.ErrValidationFailed)
}
