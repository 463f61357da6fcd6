package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

const (
	recentActivityLimit = 5
	monthlyTrendsLimit  = 12
	topStudentsLimit    = 10
)

// AnalyticsService computes the dashboard and analytics payloads
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	SessionsByCounselor(ctx context.Context) ([]models.CounselorCount, error)
	StudentsByInterest(ctx context.Context) ([]models.InterestCount, error)
	Overview(ctx context.Context, filter *dto.AnalyticsFilter) (*models.AnalyticsOverview, error)
	StudentInsights(ctx context.Context, filter *dto.StudentInsightsFilter) ([]models.StudentInsight, error)
}

// analyticsServiceImpl implements AnalyticsService
type analyticsServiceImpl struct {
	analyticsRepo repositories.IAnalyticsRepository
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo repositories.IAnalyticsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		logger:        logger,
	}
}

// Dashboard assembles headline counts and the three dashboard lists
func (s *analyticsServiceImpl) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	totals, err := s.analyticsRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	byInterest, err := s.analyticsRepo.StudentsByInterest(ctx)
	if err != nil {
		return nil, err
	}
	byCounselor, err := s.analyticsRepo.SessionsByCounselor(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.analyticsRepo.RecentActivity(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		TotalStudents:       totals.TotalStudents,
		TotalSessions:       totals.TotalSessions,
		ActiveCounselors:    totals.ActiveCounselors,
		CompletionRate:      totals.CompletionRate(),
		StudentsByInterest:  byInterest,
		SessionsByCounselor: byCounselor,
		RecentActivity:      recent,
	}, nil
}

func (s *analyticsServiceImpl) SessionsByCounselor(ctx context.Context) ([]models.CounselorCount, error) {
	return s.analyticsRepo.SessionsByCounselor(ctx)
}

func (s *analyticsServiceImpl) StudentsByInterest(ctx context.Context) ([]models.InterestCount, error) {
	return s.analyticsRepo.StudentsByInterest(ctx)
}

// parseRange turns optional query dates into a range; each bound is independent
func parseRange(filter *dto.AnalyticsFilter) (models.DateRange, error) {
	var rng models.DateRange
	if filter == nil {
		return rng, nil
	}

	verr := apperrors.NewValidationError("Invalid request")
	if filter.StartDate != "" {
		d, err := models.ParseDate(filter.StartDate)
		if err != nil {
			verr.Add("startDate", "must be a date in YYYY-MM-DD format")
		} else {
			rng.Start = &d
		}
	}
	if filter.EndDate != "" {
		d, err := models.ParseDate(filter.EndDate)
		if err != nil {
			verr.Add("endDate", "must be a date in YYYY-MM-DD format")
		} else {
			rng.End = &d
		}
	}
	if verr.HasErrors() {
		return rng, verr
	}
	return rng, nil
}

// Overview computes the range-filtered analytics payload
func (s *analyticsServiceImpl) Overview(ctx context.Context, filter *dto.AnalyticsFilter) (*models.AnalyticsOverview, error) {
	rng, err := parseRange(filter)
	if err != nil {
		return nil, err
	}

	overview, err := s.analyticsRepo.Overview(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("error computing overview: %w", err)
	}
	trends, err := s.analyticsRepo.MonthlyTrends(ctx, rng, monthlyTrendsLimit)
	if err != nil {
		return nil, fmt.Errorf("error computing monthly trends: %w", err)
	}
	top, err := s.analyticsRepo.TopStudents(ctx, rng, topStudentsLimit)
	if err != nil {
		return nil, fmt.Errorf("error computing top students: %w", err)
	}
	stats, err := s.analyticsRepo.CounselorStats(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("error computing counselor stats: %w", err)
	}

	return &models.AnalyticsOverview{
		Overview:       overview,
		MonthlyTrends:  trends,
		TopStudents:    top,
		CounselorStats: stats,
	}, nil
}

// StudentInsights summarizes counseling history; a requested but unknown student is 404
func (s *analyticsServiceImpl) StudentInsights(ctx context.Context, filter *dto.StudentInsightsFilter) ([]models.StudentInsight, error) {
	var studentID *int64
	if filter != nil && filter.StudentID > 0 {
		id := filter.StudentID
		studentID = &id
	}

	insights, err := s.analyticsRepo.StudentInsights(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if studentID != nil && len(insights) == 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return insights, nil
}
