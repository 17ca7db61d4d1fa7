package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-pro/console-api/internal/models"
)

type fakeAttendanceRepo struct {
	records  map[string]*models.AttendanceRecord
	upserted []*models.AttendanceRecord
}

func (f *fakeAttendanceRepo) List(context.Context) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0, len(f.records))
	for _, record := range f.records {
		out = append(out, *record)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByClass(_ context.Context, classID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, record := range f.records {
		if record.ClassID == classID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindByID(_ context.Context, id string) (*models.AttendanceRecord, error) {
	if record, ok := f.records[id]; ok {
		return record, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = "generated-backend-id-000000000000"
	}
	f.upserted = append(f.upserted, record)
	return nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(f.records, id)
	return nil
}

func TestSaveAttendanceRequestDecodesCamelCase(t *testing.T) {
	payload := `{
		"classId": "c1",
		"date": "2026-03-01",
		"presentStudentIds": ["s1", "s2"],
		"bibleCount": 3,
		"titheAmount": "12.50",
		"visitorCount": 1,
		"lessonTheme": "Parables"
	}`
	var req SaveAttendanceRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "c1", req.ClassID)
	require.NotNil(t, req.Date)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), req.Date.UTC())
	assert.Equal(t, []string{"s1", "s2"}, req.PresentStudentIDs)
	assert.Equal(t, 12.5, req.TitheAmount)
	assert.Equal(t, "Parables", req.LessonTheme)
}

func TestSaveAttendanceRequestPrefersSnakeCase(t *testing.T) {
	payload := `{"class_id": "snake", "classId": "camel", "date": "2026-03-01"}`
	var req SaveAttendanceRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "snake", req.ClassID)
}

func TestAttendanceSaveDiscardsShortClientID(t *testing.T) {
	repo := &fakeAttendanceRepo{records: map[string]*models.AttendanceRecord{}}
	svc := NewAttendanceService(repo, nil, nil, nil)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	record, err := svc.Save(context.Background(), SaveAttendanceRequest{
		ID:      "1709251200",
		Date:    &date,
		ClassID: "c1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "1709251200", record.ID)
	assert.NotNil(t, record.PresentStudentIDs)
}

func TestAttendanceSaveKeepsBackendID(t *testing.T) {
	existing := &models.AttendanceRecord{
		ID:        "0b0d7f9e-1111-2222-3333-444455556666",
		ClassID:   "c1",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo := &fakeAttendanceRepo{records: map[string]*models.AttendanceRecord{existing.ID: existing}}
	svc := NewAttendanceService(repo, nil, nil, nil)

	date := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	record, err := svc.Save(context.Background(), SaveAttendanceRequest{
		ID:      existing.ID,
		Date:    &date,
		ClassID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, record.ID)
	assert.Equal(t, existing.CreatedAt, record.CreatedAt)
}

func TestSaveStudentRequestDecodesBothNamings(t *testing.T) {
	var snake SaveStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Duda", "class_id": "c1", "birth_date": "2015-06-10"}`), &snake))
	var camel SaveStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Duda", "classId": "c1", "birthDate": "2015-06-10"}`), &camel))

	assert.Equal(t, snake.ClassID, camel.ClassID)
	require.NotNil(t, snake.BirthDate)
	require.NotNil(t, camel.BirthDate)
	assert.Equal(t, *snake.BirthDate, *camel.BirthDate)
}

func TestStudentSaveDefaultsToActive(t *testing.T) {
	repo := &fakeStudentRepo{students: map[string]*models.Student{}}
	svc := NewStudentService(repo, nil, nil, nil)

	student, err := svc.Save(context.Background(), SaveStudentRequest{Name: "Duda", ClassID: "c1"})
	require.NoError(t, err)
	assert.True(t, student.Active)
	assert.NotEmpty(t, student.ID)
}

type fakeStudentRepo struct {
	students map[string]*models.Student
}

func (f *fakeStudentRepo) List(context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, student := range f.students {
		out = append(out, *student)
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	if student, ok := f.students[id]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Upsert(_ context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "generated-backend-id-000000000000"
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	delete(f.students, id)
	return nil
}
