package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/models"
	"github.com/ebd-pro/console-api/internal/service"
)

type stubAttendanceRepo struct {
	records []models.AttendanceRecord
}

func (s *stubAttendanceRepo) List(context.Context) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

func (s *stubAttendanceRepo) ListByClass(_ context.Context, classID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, record := range s.records {
		if record.ClassID == classID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubAttendanceRepo) FindByID(_ context.Context, id string) (*models.AttendanceRecord, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubAttendanceRepo) Upsert(_ context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = "generated-backend-id-000000000000"
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *stubAttendanceRepo) Delete(context.Context, string) error { return nil }

func teacherSession(classID string) *models.UserSession {
	teacherID := "t1"
	return &models.UserSession{
		Role:            models.RoleTeacher,
		TeacherID:       &teacherID,
		AssignedClassID: &classID,
	}
}

func newAttendanceFixture() (*AttendanceHandler, *stubAttendanceRepo) {
	repo := &stubAttendanceRepo{records: []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "r2", ClassID: "c2", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := service.NewAttendanceService(repo, nil, nil, nil)
	return NewAttendanceHandler(svc), repo
}

func TestAttendanceListPinsTeacherToOwnClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAttendanceFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance?class_id=c2", nil)
	c.Set(middleware.ContextSessionKey, teacherSession("c1"))

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.AttendanceRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "c1", envelope.Data[0].ClassID)
}

func TestAttendanceSaveRejectsForeignClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAttendanceFixture()
	before := len(repo.records)

	body := `{"class_id": "c2", "date": "2026-03-08"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextSessionKey, teacherSession("c1"))

	handler.Save(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.records, before)
}

func TestAttendanceSaveAcceptsOwnClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAttendanceFixture()

	body := `{"classId": "c1", "date": "2026-03-08", "presentStudentIds": ["s1"], "titheAmount": "7.50"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextSessionKey, teacherSession("c1"))

	handler.Save(c)

	require.Equal(t, http.StatusOK, rec.Code)
	saved := repo.records[len(repo.records)-1]
	assert.Equal(t, "c1", saved.ClassID)
	assert.Equal(t, 7.5, saved.TitheAmount)
}

func TestAttendanceListRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAttendanceFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance", nil)

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
