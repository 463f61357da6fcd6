// Package testutil provides an in-memory store satisfying the repository
// interfaces, used by service and HTTP tests that run without PostgreSQL.
package testutil

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/repositories"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// MemStore keeps users, students and sessions in maps guarded by one mutex
type MemStore struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[int64]*models.User
	students map[int64]*models.Student
	sessions map[int64]*models.CounselingSession
	nextID   int64
}

// NewMemStore returns an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		now:      time.Now,
		users:    map[int64]*models.User{},
		students: map[int64]*models.Student{},
		sessions: map[int64]*models.CounselingSession{},
	}
}

// Repositories exposes the store through the repository interfaces
func (m *MemStore) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:     memUsers{m},
		Students:  memStudents{m},
		Sessions:  memSessions{m},
		Analytics: memAnalytics{m},
	}
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memUsers struct{ m *MemStore }

func (r memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}
	u := *user
	u.ID = m.id()
	u.Email = email
	u.CreatedAt = m.now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = &u
	out := u
	return &out, nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUsers) List(_ context.Context) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memUsers) UpdateRole(_ context.Context, id int64, role models.Role) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = r.m.now()
	out := *u
	return &out, nil
}

func (r memUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

type memStudents struct{ m *MemStore }

func (r memStudents) emailTaken(email *string, exceptID int64) bool {
	if email == nil {
		return false
	}
	for _, s := range r.m.students {
		if s.ID != exceptID && s.Email != nil && strings.EqualFold(*s.Email, *email) {
			return true
		}
	}
	return false
}

func (r memStudents) Create(_ context.Context, student *models.Student) (*models.Student, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.emailTaken(student.Email, 0) {
		return nil, apperrors.ErrStudentEmailExists
	}
	s := *student
	s.ID = m.id()
	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	m.students[s.ID] = &s
	out := s
	return &out, nil
}

func (r memStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	out := *s
	return &out, nil
}

func (r memStudents) List(_ context.Context) ([]*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Student{}
	for _, s := range r.m.students {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memStudents) Update(_ context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if r.emailTaken(patch.Email, id) {
		return nil, apperrors.ErrStudentEmailExists
	}
	if patch.FirstName != nil {
		s.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.LastName = *patch.LastName
	}
	switch {
	case patch.ClearEmail:
		s.Email = nil
	case patch.Email != nil:
		s.Email = patch.Email
	}
	if patch.GradeLevel != nil {
		s.GradeLevel = patch.GradeLevel
	}
	if patch.CareerInterest != nil {
		s.CareerInterest = patch.CareerInterest
	}
	if !patch.IsEmpty() {
		s.UpdatedAt = r.m.now()
	}
	out := *s
	return &out, nil
}

func (r memStudents) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.m.students, id)
	for sid, cs := range r.m.sessions {
		if cs.StudentID == id {
			delete(r.m.sessions, sid)
		}
	}
	return nil
}

func (r memStudents) Exists(_ context.Context, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.students[id]
	return ok, nil
}

func (r memStudents) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.students)), nil
}

type memSessions struct{ m *MemStore }

// withName copies cs and fills the joined student name; false when the student is gone
func (m *MemStore) withName(cs *models.CounselingSession) (*models.CounselingSession, bool) {
	st, ok := m.students[cs.StudentID]
	if !ok {
		return nil, false
	}
	out := *cs
	out.StudentName = st.FullName()
	return &out, true
}

func (r memSessions) Create(_ context.Context, session *models.CounselingSession) (int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[session.StudentID]; !ok {
		return 0, apperrors.ErrStudentReferenceMissing
	}
	cs := *session
	cs.ID = m.id()
	cs.CreatedAt = m.now()
	cs.UpdatedAt = cs.CreatedAt
	m.sessions[cs.ID] = &cs
	return cs.ID, nil
}

func (r memSessions) GetByID(_ context.Context, id int64) (*models.CounselingSession, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cs, ok := r.m.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	out, ok := r.m.withName(cs)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return out, nil
}

func (m *MemStore) sortedSessions(keep func(*models.CounselingSession) bool) []*models.CounselingSession {
	out := []*models.CounselingSession{}
	for _, cs := range m.sessions {
		if keep != nil && !keep(cs) {
			continue
		}
		if named, ok := m.withName(cs); ok {
			out = append(out, named)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.SessionDate.Equal(b.SessionDate.Time) {
			return a.SessionDate.After(b.SessionDate.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out
}

func (r memSessions) List(_ context.Context) ([]*models.CounselingSession, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.sortedSessions(nil), nil
}

func (r memSessions) ListByStudent(_ context.Context, studentID int64) ([]*models.CounselingSession, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.sortedSessions(func(cs *models.CounselingSession) bool { return cs.StudentID == studentID }), nil
}

func (r memSessions) Update(_ context.Context, id int64, patch models.SessionPatch) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cs, ok := r.m.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if patch.StudentID != nil {
		if _, ok := r.m.students[*patch.StudentID]; !ok {
			return apperrors.ErrStudentReferenceMissing
		}
		cs.StudentID = *patch.StudentID
	}
	if patch.CounselorName != nil {
		cs.CounselorName = *patch.CounselorName
	}
	if patch.SessionDate != nil {
		cs.SessionDate = *patch.SessionDate
	}
	if patch.SessionDuration != nil {
		cs.SessionDuration = *patch.SessionDuration
	}
	if patch.SessionType != nil {
		cs.SessionType = *patch.SessionType
	}
	if patch.Notes != nil {
		cs.Notes = patch.Notes
	}
	if !patch.IsEmpty() {
		cs.UpdatedAt = r.m.now()
	}
	return nil
}

func (r memSessions) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(r.m.sessions, id)
	return nil
}

type memAnalytics struct{ m *MemStore }

func inRange(d models.Date, rng models.DateRange) bool {
	if rng.Start != nil && d.Before(rng.Start.Time) {
		return false
	}
	if rng.End != nil && d.After(rng.End.Time) {
		return false
	}
	return true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func avgDuration(sessions []*models.CounselingSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	total := 0
	for _, cs := range sessions {
		total += cs.SessionDuration
	}
	return round1(float64(total) / float64(len(sessions)))
}

func (a memAnalytics) ranged(rng models.DateRange) []*models.CounselingSession {
	return a.m.sortedSessions(func(cs *models.CounselingSession) bool { return inRange(cs.SessionDate, rng) })
}

func (a memAnalytics) Totals(_ context.Context) (models.Totals, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	counselors := map[string]bool{}
	students := map[int64]bool{}
	for _, cs := range a.m.sessions {
		counselors[cs.CounselorName] = true
		students[cs.StudentID] = true
	}
	return models.Totals{
		TotalStudents:        int64(len(a.m.students)),
		TotalSessions:        int64(len(a.m.sessions)),
		ActiveCounselors:     int64(len(counselors)),
		StudentsWithSessions: int64(len(students)),
	}, nil
}

func (a memAnalytics) SessionsByCounselor(_ context.Context) ([]models.CounselorCount, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	counts := map[string]int64{}
	for _, cs := range a.m.sessions {
		counts[cs.CounselorName]++
	}
	out := []models.CounselorCount{}
	for name, n := range counts {
		out = append(out, models.CounselorCount{Name: name, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (a memAnalytics) StudentsByInterest(_ context.Context) ([]models.InterestCount, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	counts := map[string]int64{}
	for _, s := range a.m.students {
		if s.CareerInterest != nil && *s.CareerInterest != "" {
			counts[*s.CareerInterest]++
		}
	}
	out := []models.InterestCount{}
	for interest, n := range counts {
		out = append(out, models.InterestCount{Interest: interest, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Interest < out[j].Interest
	})
	return out, nil
}

func (a memAnalytics) RecentActivity(_ context.Context, limit uint64) ([]models.RecentActivity, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	out := []models.RecentActivity{}
	for _, cs := range a.m.sortedSessions(nil) {
		if uint64(len(out)) == limit {
			break
		}
		out = append(out, models.RecentActivity{
			ID:            cs.ID,
			Date:          cs.SessionDate,
			StudentName:   cs.StudentName,
			CounselorName: cs.CounselorName,
			Description:   cs.Notes,
		})
	}
	return out, nil
}

func (a memAnalytics) Overview(_ context.Context, rng models.DateRange) (models.Overview, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	now := a.m.now()
	recentCutoff := models.NewDate(now.AddDate(0, 0, -30))
	sessions := a.ranged(rng)

	active := map[int64]bool{}
	counselors := map[string]bool{}
	var thisMonth int64
	for _, cs := range sessions {
		counselors[cs.CounselorName] = true
		if !cs.SessionDate.Before(recentCutoff.Time) {
			active[cs.StudentID] = true
		}
		if cs.SessionDate.Year() == now.Year() && cs.SessionDate.Month() == now.Month() {
			thisMonth++
		}
	}
	return models.Overview{
		TotalStudents:      int64(len(a.m.students)),
		TotalSessions:      int64(len(sessions)),
		ActiveStudents:     int64(len(active)),
		AvgSessionDuration: avgDuration(sessions),
		TotalCounselors:    int64(len(counselors)),
		SessionsThisMonth:  thisMonth,
	}, nil
}

func (a memAnalytics) MonthlyTrends(_ context.Context, rng models.DateRange, limit uint64) ([]models.MonthlyTrend, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	type bucket struct {
		sessions   int64
		students   map[int64]bool
		counselors map[string]bool
	}
	buckets := map[string]*bucket{}
	for _, cs := range a.ranged(rng) {
		month := cs.SessionDate.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{students: map[int64]bool{}, counselors: map[string]bool{}}
			buckets[month] = b
		}
		b.sessions++
		b.students[cs.StudentID] = true
		b.counselors[cs.CounselorName] = true
	}
	out := []models.MonthlyTrend{}
	for month, b := range buckets {
		out = append(out, models.MonthlyTrend{
			Month:            month,
			Sessions:         b.sessions,
			UniqueStudents:   int64(len(b.students)),
			UniqueCounselors: int64(len(b.counselors)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a memAnalytics) TopStudents(_ context.Context, rng models.DateRange, limit uint64) ([]models.TopStudent, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	sessions := a.ranged(rng)
	out := []models.TopStudent{}
	for _, s := range a.m.students {
		ts := models.TopStudent{ID: s.ID, StudentName: s.FullName()}
		for _, cs := range sessions {
			if cs.StudentID != s.ID {
				continue
			}
			ts.SessionCount++
			if ts.LastSession == nil || cs.SessionDate.After(ts.LastSession.Time) {
				d := cs.SessionDate
				ts.LastSession = &d
			}
		}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionCount != out[j].SessionCount {
			return out[i].SessionCount > out[j].SessionCount
		}
		return out[i].ID < out[j].ID
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a memAnalytics) CounselorStats(_ context.Context, rng models.DateRange) ([]models.CounselorStat, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	recentCutoff := models.NewDate(a.m.now().AddDate(0, 0, -30))
	byCounselor := map[string][]*models.CounselingSession{}
	for _, cs := range a.ranged(rng) {
		byCounselor[cs.CounselorName] = append(byCounselor[cs.CounselorName], cs)
	}
	out := []models.CounselorStat{}
	for name, sessions := range byCounselor {
		students := map[int64]bool{}
		var recent int64
		for _, cs := range sessions {
			students[cs.StudentID] = true
			if !cs.SessionDate.Before(recentCutoff.Time) {
				recent++
			}
		}
		out = append(out, models.CounselorStat{
			CounselorName:  name,
			TotalSessions:  int64(len(sessions)),
			UniqueStudents: int64(len(students)),
			AvgDuration:    avgDuration(sessions),
			RecentSessions: recent,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSessions != out[j].TotalSessions {
			return out[i].TotalSessions > out[j].TotalSessions
		}
		return out[i].CounselorName < out[j].CounselorName
	})
	return out, nil
}

func (a memAnalytics) StudentInsights(_ context.Context, studentID *int64) ([]models.StudentInsight, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	out := []models.StudentInsight{}
	for _, s := range a.m.students {
		if studentID != nil && s.ID != *studentID {
			continue
		}
		si := models.StudentInsight{
			ID:             s.ID,
			StudentName:    s.FullName(),
			GradeLevel:     s.GradeLevel,
			CareerInterest: s.CareerInterest,
		}
		sessions := a.m.sortedSessions(func(cs *models.CounselingSession) bool { return cs.StudentID == s.ID })
		counselors := map[string]bool{}
		for _, cs := range sessions {
			counselors[cs.CounselorName] = true
			d := cs.SessionDate
			if si.FirstSession == nil || d.Before(si.FirstSession.Time) {
				first := d
				si.FirstSession = &first
			}
			if si.LastSession == nil || d.After(si.LastSession.Time) {
				last := d
				si.LastSession = &last
			}
		}
		si.TotalSessions = int64(len(sessions))
		si.AvgSessionDuration = avgDuration(sessions)
		si.CounselorsSeen = int64(len(counselors))
		out = append(out, si)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSessions != out[j].TotalSessions {
			return out[i].TotalSessions > out[j].TotalSessions
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var (
	_ repositories.IUserRepository      = memUsers{}
	_ repositories.IStudentRepository   = memStudents{}
	_ repositories.ISessionRepository   = memSessions{}
	_ repositories.IAnalyticsRepository = memAnalytics{}
)
