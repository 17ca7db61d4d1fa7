package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type snapshotLoader interface {
	Load(ctx context.Context) (models.StateSnapshot, error)
	Snapshot(ctx context.Context, session *models.UserSession) (models.StateSnapshot, error)
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool)
}

// teacherTimelineLimit caps the teacher dashboard's presence timeline at
// the most recent lessons.
const teacherTimelineLimit = 10

// DashboardService computes the admin and teacher dashboards from the
// attendance data. Results are cached; any mutation on the underlying
// collections clears the cache.
type DashboardService struct {
	state   snapshotLoader
	cache   dashboardCache
	metrics cacheMetricsRecorder
	ttl     time.Duration
	logger  *zap.Logger

	// now is swapped in tests to pin the birthday week window.
	now func() time.Time
}

// NewDashboardService constructs a DashboardService. metrics may be nil.
func NewDashboardService(state snapshotLoader, cache dashboardCache, metrics cacheMetricsRecorder, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{state: state, cache: cache, metrics: metrics, ttl: ttl, logger: logger, now: time.Now}
}

func (s *DashboardService) recordCacheRead(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

// Admin computes the admin dashboard over all classes.
func (s *DashboardService) Admin(ctx context.Context) (*models.AdminDashboard, error) {
	const cacheKey = "dashboard:admin"
	if s.cache != nil {
		var cached models.AdminDashboard
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.recordCacheRead(true)
			return &cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			s.recordCacheRead(false)
		} else {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	snapshot, err := s.state.Load(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := buildAdminDashboard(snapshot, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Teacher computes the single-class dashboard for a teacher session. A
// session without an assigned class gets an empty dashboard rather than
// an error.
func (s *DashboardService) Teacher(ctx context.Context, session *models.UserSession) (*models.TeacherDashboard, error) {
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no session")
	}
	if session.AssignedClassID == nil {
		return &models.TeacherDashboard{Timeline: []models.TimelinePoint{}}, nil
	}
	classID := *session.AssignedClassID

	cacheKey := fmt.Sprintf("dashboard:teacher:%s", classID)
	if s.cache != nil {
		var cached models.TeacherDashboard
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.recordCacheRead(true)
			return &cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			s.recordCacheRead(false)
		} else {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	snapshot, err := s.state.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}

	dashboard := buildTeacherDashboard(snapshot, classID)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, nil
}

func buildAdminDashboard(snapshot models.StateSnapshot, now time.Time) *models.AdminDashboard {
	rosters := rosterSizes(snapshot.Students)

	summary := models.DashboardSummary{TotalClasses: len(snapshot.Classes)}
	perClass := make(map[string]*models.ClassBreakdownRow, len(snapshot.Classes))
	for _, class := range snapshot.Classes {
		perClass[class.ID] = &models.ClassBreakdownRow{ClassID: class.ID, Name: class.Name}
	}

	for _, record := range snapshot.Records {
		present := record.PresentCount()
		absent := absentFor(rosters[record.ClassID], present)

		summary.TotalTithes += record.TitheAmount
		summary.TotalPresence += present
		summary.TotalAbsent += absent
		summary.TotalVisitors += record.VisitorCount
		summary.TotalBibles += record.BibleCount

		row, ok := perClass[record.ClassID]
		if !ok {
			// Record of a deleted class still counts in the totals but
			// has no chart row.
			continue
		}
		row.Presence += present
		row.Tithes += record.TitheAmount
		row.Bibles += record.BibleCount
		row.Visitors += record.VisitorCount
		row.Absent += absent
	}

	byClass := make([]models.ClassBreakdownRow, 0, len(snapshot.Classes))
	for _, class := range snapshot.Classes {
		byClass = append(byClass, *perClass[class.ID])
	}

	return &models.AdminDashboard{
		Summary:   summary,
		ByClass:   byClass,
		Birthdays: birthdaysThisWeek(snapshot.Students, now),
	}
}

func buildTeacherDashboard(snapshot models.StateSnapshot, classID string) *models.TeacherDashboard {
	dashboard := &models.TeacherDashboard{
		ClassID:  classID,
		Timeline: []models.TimelinePoint{},
	}
	for _, class := range snapshot.Classes {
		if class.ID == classID {
			dashboard.ClassName = class.Name
			dashboard.Category = class.Category
			break
		}
	}
	for _, student := range snapshot.Students {
		if student.ClassID == classID && student.Active {
			dashboard.ActiveStudents++
		}
	}

	totalPresence := 0
	for _, record := range snapshot.Records {
		if record.ClassID != classID {
			continue
		}
		present := record.PresentCount()
		dashboard.Lessons++
		dashboard.TotalTithes += record.TitheAmount
		dashboard.TotalVisitors += record.VisitorCount
		totalPresence += present
		dashboard.Timeline = append(dashboard.Timeline, models.TimelinePoint{
			Date:     record.Date,
			Presence: present,
			Tithes:   record.TitheAmount,
			Visitors: record.VisitorCount,
		})
	}
	if dashboard.Lessons > 0 {
		dashboard.AveragePresence = float64(totalPresence) / float64(dashboard.Lessons)
	}
	sort.Slice(dashboard.Timeline, func(i, j int) bool {
		return dashboard.Timeline[i].Date.Before(dashboard.Timeline[j].Date)
	})
	if len(dashboard.Timeline) > teacherTimelineLimit {
		dashboard.Timeline = dashboard.Timeline[len(dashboard.Timeline)-teacherTimelineLimit:]
	}
	return dashboard
}

// rosterSizes counts students per class, active or not. Absence is judged
// against the current roster, not the roster at the record's date.
func rosterSizes(students []models.Student) map[string]int {
	sizes := make(map[string]int)
	for _, student := range students {
		sizes[student.ClassID]++
	}
	return sizes
}

// absentFor clamps at zero: a record listing more present students than
// the current roster never yields negative absence.
func absentFor(rosterSize, present int) int {
	if absent := rosterSize - present; absent > 0 {
		return absent
	}
	return 0
}

// birthdaysThisWeek returns students whose birthday falls within the
// current local week, Sunday through Saturday, sorted by day of month.
// The birthday candidate is placed in the current year, so the slice of
// a week that spills into an adjacent year yields no matches.
func birthdaysThisWeek(students []models.Student, now time.Time) []models.BirthdayStudent {
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart = weekStart.AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)

	birthdays := []models.BirthdayStudent{}
	for _, student := range students {
		if student.BirthDate == nil {
			continue
		}
		birth := student.BirthDate.UTC()
		candidate := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, now.Location())
		if candidate.Before(weekStart) || candidate.After(weekEnd) {
			continue
		}
		birthdays = append(birthdays, models.BirthdayStudent{
			StudentID: student.ID,
			Name:      student.Name,
			ClassID:   student.ClassID,
			BirthDate: student.BirthDate,
		})
	}

	sort.SliceStable(birthdays, func(i, j int) bool {
		return birthdays[i].BirthDate.UTC().Day() < birthdays[j].BirthDate.UTC().Day()
	})
	return birthdays
}
