package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type fakeProfileStore struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileStore) FindByID(_ context.Context, id string) (*models.Profile, error) {
	if profile, ok := f.profiles[id]; ok {
		return profile, nil
	}
	return nil, sql.ErrNoRows
}

type fakeTeacherRoster struct {
	byEmail map[string]*models.Teacher
}

func (f *fakeTeacherRoster) FindByEmail(_ context.Context, email string) (*models.Teacher, error) {
	if teacher, ok := f.byEmail[email]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type fakeClassLookup struct {
	byTeacher map[string][]models.Class
}

func (f *fakeClassLookup) FindByTeacherName(_ context.Context, name string) ([]models.Class, error) {
	return f.byTeacher[name], nil
}

func strPtr(s string) *string { return &s }

func newSessionFixture() (*fakeProfileStore, *fakeTeacherRoster, *fakeClassLookup) {
	profiles := &fakeProfileStore{profiles: map[string]*models.Profile{
		"u-admin":   {ID: "u-admin", Email: "boss@example.com", Role: models.RoleAdmin},
		"u-teacher": {ID: "u-teacher", Email: "ana@example.com", Role: models.RoleTeacher},
	}}
	roster := &fakeTeacherRoster{byEmail: map[string]*models.Teacher{
		"ana@example.com": {ID: "t1", Name: "Ana", Email: strPtr("ana@example.com"), Active: true},
	}}
	classes := &fakeClassLookup{byTeacher: map[string][]models.Class{
		"Ana": {{ID: "c1", Name: "Juniors", Teacher: "Ana", Category: "Kids"}},
	}}
	return profiles, roster, classes
}

func TestSessionResolveAdmin(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	svc := NewSessionService(profiles, roster, classes, true, nil)

	session, err := svc.Resolve(context.Background(), "u-admin", "boss@example.com", "Boss")
	require.NoError(t, err)
	assert.True(t, session.IsAdmin())
	assert.Nil(t, session.TeacherID)
	assert.Nil(t, session.AssignedClassID)
}

func TestSessionResolveTeacherWithSingleClass(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	svc := NewSessionService(profiles, roster, classes, true, nil)

	session, err := svc.Resolve(context.Background(), "u-teacher", "ana@example.com", "Ana Account")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, session.Role)
	require.NotNil(t, session.TeacherID)
	assert.Equal(t, "t1", *session.TeacherID)
	require.NotNil(t, session.AssignedClassID)
	assert.Equal(t, "c1", *session.AssignedClassID)
	assert.Equal(t, "Ana", session.Name)
}

func TestSessionResolveTeacherWithAmbiguousClasses(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	classes.byTeacher["Ana"] = append(classes.byTeacher["Ana"],
		models.Class{ID: "c2", Name: "Seniors", Teacher: "Ana", Category: "Youth"})
	svc := NewSessionService(profiles, roster, classes, true, nil)

	session, err := svc.Resolve(context.Background(), "u-teacher", "ana@example.com", "Ana")
	require.NoError(t, err)
	require.NotNil(t, session.TeacherID)
	assert.Nil(t, session.AssignedClassID)
}

func TestSessionResolveTeacherWithoutRosterEntry(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	profiles.profiles["u-orphan"] = &models.Profile{ID: "u-orphan", Email: "new@example.com", Role: models.RoleTeacher}
	svc := NewSessionService(profiles, roster, classes, true, nil)

	session, err := svc.Resolve(context.Background(), "u-orphan", "new@example.com", "New Teacher")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, session.Role)
	assert.Nil(t, session.TeacherID)
	assert.Nil(t, session.AssignedClassID)
}

func TestSessionResolveMissingProfileFallsBackToAdmin(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	svc := NewSessionService(profiles, roster, classes, true, nil)

	session, err := svc.Resolve(context.Background(), "u-unknown", "ghost@example.com", "Ghost")
	require.NoError(t, err)
	assert.True(t, session.IsAdmin())
}

func TestSessionResolveMissingProfileRejectedWhenFallbackDisabled(t *testing.T) {
	profiles, roster, classes := newSessionFixture()
	svc := NewSessionService(profiles, roster, classes, false, nil)

	_, err := svc.Resolve(context.Background(), "u-unknown", "ghost@example.com", "Ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
