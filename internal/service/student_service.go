package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/mapper"
	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Upsert(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// SaveStudentRequest is the payload for creating or updating a student.
// It decodes through the field-name bridge so both snake_case and
// camelCase clients are accepted.
type SaveStudentRequest struct {
	ID        string     `validate:"-"`
	Name      string     `validate:"required"`
	ClassID   string     `validate:"required"`
	BirthDate *time.Time `validate:"-"`
	Active    *bool      `validate:"-"`
}

// UnmarshalJSON decodes the payload tolerating either naming scheme.
func (r *SaveStudentRequest) UnmarshalJSON(data []byte) error {
	row, err := mapper.Decode(data)
	if err != nil {
		return err
	}
	r.ID = row.String("id")
	r.Name = row.String("name")
	r.ClassID = row.String("class_id", "classId")
	r.BirthDate = row.Time("birth_date", "birthDate")
	if row.Has("active") {
		active := row.Bool("active")
		r.Active = &active
	}
	return nil
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo      studentRepository
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Save creates or updates a student. Short client-minted ids are
// discarded and replaced with a backend id.
func (s *StudentService) Save(ctx context.Context, req SaveStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		ID:        persistedID(req.ID),
		Name:      req.Name,
		ClassID:   req.ClassID,
		BirthDate: req.BirthDate,
		Active:    true,
	}
	if req.Active != nil {
		student.Active = *req.Active
	}
	if student.ID != "" {
		if existing, err := s.repo.FindByID(ctx, student.ID); err == nil {
			student.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.repo.Upsert(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
	}
	s.invalidateDashboards(ctx)
	return student, nil
}

// Delete removes a student. Ids already embedded in attendance records
// stay behind; aggregation ignores them.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *StudentService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
