package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-pro/console-api/internal/models"
)

func reportRecords() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		{ID: "r1", ClassID: "c1", Date: time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), TitheAmount: 4, PresentStudentIDs: pq.StringArray{"s1"}},
		{ID: "r2", ClassID: "c1", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), TitheAmount: 10, PresentStudentIDs: pq.StringArray{"s1", "s2"}},
		{ID: "r3", ClassID: "c1", Date: time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC), TitheAmount: 7, PresentStudentIDs: pq.StringArray{"s1"}},
		{ID: "r4", ClassID: "c1", Date: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC), TitheAmount: 1, PresentStudentIDs: pq.StringArray{"s2"}},
	}
}

func TestGroupHistoryNesting(t *testing.T) {
	years := GroupHistory(reportRecords())
	require.Len(t, years, 2)
	assert.Equal(t, 2026, years[0].Year)
	assert.Equal(t, 2025, years[1].Year)

	require.Len(t, years[0].Quarters, 1)
	q1 := years[0].Quarters[0]
	assert.Equal(t, 1, q1.Quarter)
	require.Len(t, q1.Months, 1)
	feb := q1.Months[0]
	assert.Equal(t, 2, feb.Month)
	assert.Equal(t, 3, feb.Lessons)

	// Feb 1 and Feb 6 are week 1, Feb 8 is week 2; weeks sort newest
	// first and records within a week sort newest first.
	require.Len(t, feb.Weeks, 2)
	assert.Equal(t, 2, feb.Weeks[0].Week)
	assert.Equal(t, 1, feb.Weeks[1].Week)
	require.Len(t, feb.Weeks[1].Records, 2)
	assert.Equal(t, "r4", feb.Weeks[1].Records[0].ID)
	assert.Equal(t, "r2", feb.Weeks[1].Records[1].ID)
	assert.Equal(t, 11.0, feb.Weeks[1].Tithes)
	assert.Equal(t, 3, feb.Weeks[1].Presence)

	// November 30 lands in week 5.
	nov := years[1].Quarters[0].Months[0]
	assert.Equal(t, 11, nov.Month)
	assert.Equal(t, 5, nov.Weeks[0].Week)
}

func TestWeekOfMonthBuckets(t *testing.T) {
	assert.Equal(t, 1, weekOfMonth(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, weekOfMonth(time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, weekOfMonth(time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5, weekOfMonth(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestExportCSV(t *testing.T) {
	state := &fakeState{snapshot: models.StateSnapshot{
		Classes: []models.Class{{ID: "c1", Name: "Juniors"}},
		Records: reportRecords(),
	}}
	svc := NewReportService(state, nil)

	session := &models.UserSession{Role: models.RoleAdmin}
	payload, contentType, err := svc.Export(context.Background(), session, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Date,Class,Present"))
	assert.Contains(t, body, "2026-02-01,Juniors,2")
	assert.Contains(t, body, "10.00")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	state := &fakeState{snapshot: models.StateSnapshot{}}
	svc := NewReportService(state, nil)

	_, _, err := svc.Export(context.Background(), &models.UserSession{Role: models.RoleAdmin}, "xlsx")
	require.Error(t, err)
}
