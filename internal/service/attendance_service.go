package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/mapper"
	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context) ([]models.AttendanceRecord, error)
	ListByClass(ctx context.Context, classID string) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
}

// SaveAttendanceRequest is the payload for recording a lesson. It decodes
// through the field-name bridge so both snake_case and camelCase clients
// are accepted. Counts and amounts arriving as numeric strings are
// coerced.
type SaveAttendanceRequest struct {
	ID                string     `validate:"-"`
	Date              *time.Time `validate:"required"`
	ClassID           string     `validate:"required"`
	PresentStudentIDs []string   `validate:"-"`
	BibleCount        int        `validate:"min=0"`
	TitheAmount       float64    `validate:"min=0"`
	VisitorCount      int        `validate:"min=0"`
	LessonTheme       string     `validate:"-"`
}

// UnmarshalJSON decodes the payload tolerating either naming scheme.
func (r *SaveAttendanceRequest) UnmarshalJSON(data []byte) error {
	row, err := mapper.Decode(data)
	if err != nil {
		return err
	}
	r.ID = row.String("id")
	r.Date = row.Time("date")
	r.ClassID = row.String("class_id", "classId")
	r.PresentStudentIDs = row.StringSlice("present_student_ids", "presentStudentIds")
	r.BibleCount = row.Int("bible_count", "bibleCount")
	r.TitheAmount = row.Float("tithe_amount", "titheAmount")
	r.VisitorCount = row.Int("visitor_count", "visitorCount")
	r.LessonTheme = row.String("lesson_theme", "lessonTheme")
	return nil
}

// AttendanceService orchestrates lesson records.
type AttendanceService struct {
	repo      attendanceRepository
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns attendance records, optionally limited to one class.
func (s *AttendanceService) List(ctx context.Context, classID string) ([]models.AttendanceRecord, error) {
	var (
		records []models.AttendanceRecord
		err     error
	)
	if classID != "" {
		records, err = s.repo.ListByClass(ctx, classID)
	} else {
		records, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, nil
}

// Save records or updates a lesson. Short client-minted ids are discarded
// and replaced with a backend id.
func (s *AttendanceService) Save(ctx context.Context, req SaveAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	record := &models.AttendanceRecord{
		ID:                persistedID(req.ID),
		Date:              req.Date.UTC(),
		ClassID:           req.ClassID,
		PresentStudentIDs: pq.StringArray(req.PresentStudentIDs),
		BibleCount:        req.BibleCount,
		TitheAmount:       req.TitheAmount,
		VisitorCount:      req.VisitorCount,
		LessonTheme:       req.LessonTheme,
	}
	if record.PresentStudentIDs == nil {
		record.PresentStudentIDs = pq.StringArray{}
	}
	if record.ID != "" {
		if existing, err := s.repo.FindByID(ctx, record.ID); err == nil {
			record.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance record")
	}
	s.invalidateDashboards(ctx)
	return record, nil
}

// Delete removes a lesson record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance record")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *AttendanceService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
