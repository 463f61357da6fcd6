package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	appRepos "github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/auth"
)

// TxRunner runs fn against repositories bound to a single transaction
type TxRunner func(ctx context.Context, fn func(ctx context.Context, repos *appRepos.Repositories) error) error

// Account is one default login created at startup
type Account struct {
	Email    string
	Password string
	Role     models.Role
	FullName string
}

// Options selects what the seeder creates
type Options struct {
	Accounts   []Account
	SampleData bool
}

// Seeder creates default accounts and optional sample records
type Seeder struct {
	repos  *appRepos.Repositories
	inTx   TxRunner
	logger zerolog.Logger
	now    func() time.Time
}

// NewSeeder creates a seeder. inTx may be nil, in which case sample data is
// written straight through repos.
func NewSeeder(repos *appRepos.Repositories, inTx TxRunner, logger zerolog.Logger) *Seeder {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(context.Context, *appRepos.Repositories) error) error {
			return fn(ctx, repos)
		}
	}
	return &Seeder{repos: repos, inTx: inTx, logger: logger, now: time.Now}
}

// Run creates missing accounts, then sample data when enabled and the student table is empty.
// Account failures are collected so one bad entry does not block the others.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	var finalErr error
	for _, acct := range opts.Accounts {
		if err := s.ensureAccount(ctx, acct); err != nil {
			s.logger.Error().Err(err).Str("email", acct.Email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if opts.SampleData {
		if err := s.sampleData(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Error creating sample data")
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}

func (s *Seeder) ensureAccount(ctx context.Context, acct Account) error {
	if acct.Email == "" || acct.Password == "" {
		return nil
	}

	_, err := s.repos.Users.GetByEmail(ctx, acct.Email)
	switch {
	case err == nil:
		s.logger.Debug().Str("email", acct.Email).Msg("Default account exists, skipping")
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return fmt.Errorf("lookup %s: %w", acct.Email, err)
	}

	hash, err := auth.HashPassword(acct.Password)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", acct.Email, err)
	}

	user := &models.User{Email: acct.Email, PasswordHash: hash, Role: acct.Role}
	if acct.FullName != "" {
		user.FullName = &acct.FullName
	}
	if _, err := s.repos.Users.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return fmt.Errorf("create %s: %w", acct.Email, err)
	}
	s.logger.Info().Str("email", acct.Email).Str("role", string(acct.Role)).Msg("Default account created")
	return nil
}

type sampleStudent struct {
	first, last, email, grade, interest string
}

var sampleStudents = []sampleStudent{
	{"Amara", "Okafor", "amara.okafor@school.test", "12", "Medicine"},
	{"Liam", "Chen", "liam.chen@school.test", "11", "Engineering"},
	{"Sofia", "Martinez", "sofia.martinez@school.test", "12", "Law"},
	{"Noah", "Haddad", "noah.haddad@school.test", "10", "Engineering"},
	{"Grace", "Mwangi", "grace.mwangi@school.test", "11", "Business"},
}

type sampleSession struct {
	student   int
	counselor string
	daysAgo   int
	duration  int
	kind      string
	notes     string
}

var sampleSessions = []sampleSession{
	{0, "Ms. Rivera", 3, 45, "individual", "Reviewed medical school prerequisites"},
	{0, "Ms. Rivera", 40, 30, "individual", "Initial career interest survey"},
	{1, "Mr. Osei", 7, 60, "group", "STEM pathways workshop"},
	{2, "Ms. Rivera", 12, 45, "individual", "Discussed pre-law programs"},
	{3, "Mr. Osei", 20, 45, "individual", "Internship options"},
	{4, "Dr. Patel", 65, 50, "individual", "Business school application timeline"},
}

func (s *Seeder) sampleData(ctx context.Context) error {
	count, err := s.repos.Students.Count(ctx)
	if err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int64("students", count).Msg("Students already present, skipping sample data")
		return nil
	}

	today := models.NewDate(s.now())
	return s.inTx(ctx, func(ctx context.Context, repos *appRepos.Repositories) error {
		ids := make([]int64, len(sampleStudents))
		for i, st := range sampleStudents {
			created, err := repos.Students.Create(ctx, &models.Student{
				FirstName:      st.first,
				LastName:       st.last,
				Email:          &st.email,
				GradeLevel:     &st.grade,
				CareerInterest: &st.interest,
			})
			if err != nil {
				return fmt.Errorf("create student %s %s: %w", st.first, st.last, err)
			}
			ids[i] = created.ID
		}

		for _, ss := range sampleSessions {
			_, err := repos.Sessions.Create(ctx, &models.CounselingSession{
				StudentID:       ids[ss.student],
				CounselorName:   ss.counselor,
				SessionDate:     models.NewDate(today.AddDate(0, 0, -ss.daysAgo)),
				SessionDuration: ss.duration,
				SessionType:     ss.kind,
				Notes:           &ss.notes,
			})
			if err != nil {
				return fmt.Errorf("create session for student %d: %w", ids[ss.student], err)
			}
		}

		s.logger.Info().Int("students", len(sampleStudents)).Int("sessions", len(sampleSessions)).Msg("Sample data created")
		return nil
	})
}
