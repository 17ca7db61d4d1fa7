package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type stateClassRepository interface {
	List(ctx context.Context) ([]models.Class, error)
}

type stateStudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
}

type stateTeacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type stateCategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
}

type stateAttendanceRepository interface {
	List(ctx context.Context) ([]models.AttendanceRecord, error)
}

// StateService assembles the full application snapshot: every collection
// in one load, scoped to the caller. Clients re-fetch the snapshot after
// any mutation instead of patching local copies.
type StateService struct {
	classes    stateClassRepository
	students   stateStudentRepository
	teachers   stateTeacherRepository
	categories stateCategoryRepository
	records    stateAttendanceRepository
	logger     *zap.Logger
}

// NewStateService constructs a StateService.
func NewStateService(classes stateClassRepository, students stateStudentRepository, teachers stateTeacherRepository, categories stateCategoryRepository, records stateAttendanceRepository, logger *zap.Logger) *StateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateService{
		classes:    classes,
		students:   students,
		teachers:   teachers,
		categories: categories,
		records:    records,
		logger:     logger,
	}
}

// Load reads every collection unscoped. A collection that fails to load
// comes back empty rather than failing the whole snapshot; the error is
// logged and surfaced only when nothing loaded at all.
func (s *StateService) Load(ctx context.Context) (models.StateSnapshot, error) {
	var snapshot models.StateSnapshot
	failures := 0

	var err error
	if snapshot.Classes, err = s.classes.List(ctx); err != nil {
		s.logger.Warn("failed to load classes", zap.Error(err))
		failures++
	}
	if snapshot.Students, err = s.students.List(ctx); err != nil {
		s.logger.Warn("failed to load students", zap.Error(err))
		failures++
	}
	if snapshot.Teachers, err = s.teachers.List(ctx); err != nil {
		s.logger.Warn("failed to load teachers", zap.Error(err))
		failures++
	}
	if snapshot.Categories, err = s.categories.List(ctx); err != nil {
		s.logger.Warn("failed to load categories", zap.Error(err))
		failures++
	}
	if snapshot.Records, err = s.records.List(ctx); err != nil {
		s.logger.Warn("failed to load attendance records", zap.Error(err))
		failures++
	}

	if failures == 5 {
		return snapshot, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application state")
	}
	return snapshot, nil
}

// Snapshot loads all collections and narrows them to the session's view.
func (s *StateService) Snapshot(ctx context.Context, session *models.UserSession) (models.StateSnapshot, error) {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return snapshot, err
	}
	return ScopeCollections(session, snapshot), nil
}
