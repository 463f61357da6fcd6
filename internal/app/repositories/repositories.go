package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/db"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// IStudentRepository defines the interface for student persistence
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ISessionRepository defines the interface for counseling session persistence
type ISessionRepository interface {
	Create(ctx context.Context, session *models.CounselingSession) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.CounselingSession, error)
	List(ctx context.Context) ([]*models.CounselingSession, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.CounselingSession, error)
	Update(ctx context.Context, id int64, patch models.SessionPatch) error
	Delete(ctx context.Context, id int64) error
}

// IAnalyticsRepository defines the read-only aggregation queries
type IAnalyticsRepository interface {
	Totals(ctx context.Context) (models.Totals, error)
	SessionsByCounselor(ctx context.Context) ([]models.CounselorCount, error)
	StudentsByInterest(ctx context.Context) ([]models.InterestCount, error)
	RecentActivity(ctx context.Context, limit uint64) ([]models.RecentActivity, error)
	Overview(ctx context.Context, r models.DateRange) (models.Overview, error)
	MonthlyTrends(ctx context.Context, r models.DateRange, limit uint64) ([]models.MonthlyTrend, error)
	TopStudents(ctx context.Context, r models.DateRange, limit uint64) ([]models.TopStudent, error)
	CounselorStats(ctx context.Context, r models.DateRange) ([]models.CounselorStat, error)
	StudentInsights(ctx context.Context, studentID *int64) ([]models.StudentInsight, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users     IUserRepository
	Students  IStudentRepository
	Sessions  ISessionRepository
	Analytics IAnalyticsRepository
}

// NewRepositories initializes all repositories on a pool or transaction
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(conn),
		Students:  NewStudentRepository(conn),
		Sessions:  NewSessionRepository(conn),
		Analytics: NewAnalyticsRepository(conn),
	}
}

// statementBuilder returns a squirrel builder using PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func toDatePtr(t *time.Time) *models.Date {
	if t == nil {
		return nil
	}
	d := models.NewDate(*t)
	return &d
}
