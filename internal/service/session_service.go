package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type sessionProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

type sessionTeacherRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
}

type sessionClassRepository interface {
	FindByTeacherName(ctx context.Context, name string) ([]models.Class, error)
}

// SessionService turns an authenticated identity into a UserSession: the
// role plus, for teachers, the roster entry and assigned class that bound
// everything they may see.
type SessionService struct {
	profiles sessionProfileRepository
	teachers sessionTeacherRepository
	classes  sessionClassRepository
	logger   *zap.Logger

	// allowProfileFallback grants ADMIN when no profile row exists for
	// the user. Kept for bootstrap installs where the profile table is
	// populated after the first login.
	allowProfileFallback bool
}

// NewSessionService constructs a SessionService.
func NewSessionService(profiles sessionProfileRepository, teachers sessionTeacherRepository, classes sessionClassRepository, allowProfileFallback bool, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		profiles:             profiles,
		teachers:             teachers,
		classes:              classes,
		allowProfileFallback: allowProfileFallback,
		logger:               logger,
	}
}

// Resolve builds the session for an authenticated user. The profile row
// is authoritative for the role. A TEACHER profile is then matched against
// the teacher roster by email, and the roster name against the classes
// collection; the class link only sticks when exactly one class matches.
func (s *SessionService) Resolve(ctx context.Context, userID, email, fullName string) (*models.UserSession, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
		}
		if !s.allowProfileFallback {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "no profile registered for this account")
		}
		s.logger.Warn("no profile for user, falling back to admin session",
			zap.String("user_id", userID), zap.String("email", email))
		return &models.UserSession{Email: email, Role: models.RoleAdmin, Name: fullName}, nil
	}

	session := &models.UserSession{
		Email: email,
		Role:  profile.Role,
		Name:  fullName,
	}
	if profile.FullName != nil && *profile.FullName != "" {
		session.Name = *profile.FullName
	}

	if profile.Role != models.RoleTeacher {
		return session, nil
	}

	teacher, err := s.teachers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A teacher profile without a roster entry still logs in;
			// scoping will simply show them nothing.
			return session, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to match teacher roster")
	}

	session.TeacherID = &teacher.ID
	session.Name = teacher.Name

	classes, err := s.classes.FindByTeacherName(ctx, teacher.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to match classes for teacher")
	}
	if len(classes) == 1 {
		session.AssignedClassID = &classes[0].ID
	} else if len(classes) > 1 {
		s.logger.Warn("teacher name matches multiple classes, leaving session unassigned",
			zap.String("teacher", teacher.Name), zap.Int("matches", len(classes)))
	}

	return session, nil
}
