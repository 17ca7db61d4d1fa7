package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebd-pro/console-api/internal/models"
)

func sampleSnapshot() models.StateSnapshot {
	return models.StateSnapshot{
		Classes: []models.Class{
			{ID: "c1", Name: "Juniors", Teacher: "Ana", Category: "Kids"},
			{ID: "c2", Name: "Seniors", Teacher: "Bia", Category: "Youth"},
		},
		Students: []models.Student{
			{ID: "s1", Name: "Duda", ClassID: "c1", Active: true},
			{ID: "s2", Name: "Rafa", ClassID: "c2", Active: true},
		},
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Ana"},
			{ID: "t2", Name: "Bia"},
		},
		Categories: []models.Category{
			{ID: "g1", Name: "Kids"},
			{ID: "g2", Name: "Youth"},
		},
		Records: []models.AttendanceRecord{
			{ID: "r1", ClassID: "c1"},
			{ID: "r2", ClassID: "c2"},
		},
	}
}

func TestScopeCollectionsAdminPassesThrough(t *testing.T) {
	snapshot := sampleSnapshot()
	session := &models.UserSession{Role: models.RoleAdmin}

	scoped := ScopeCollections(session, snapshot)
	assert.Equal(t, snapshot, scoped)
}

func TestScopeCollectionsTeacherSeesOnlyAssignedClass(t *testing.T) {
	snapshot := sampleSnapshot()
	teacherID := "t1"
	classID := "c1"
	session := &models.UserSession{
		Role:            models.RoleTeacher,
		TeacherID:       &teacherID,
		AssignedClassID: &classID,
	}

	scoped := ScopeCollections(session, snapshot)
	assert.Len(t, scoped.Classes, 1)
	assert.Equal(t, "c1", scoped.Classes[0].ID)
	assert.Len(t, scoped.Students, 1)
	assert.Equal(t, "s1", scoped.Students[0].ID)
	assert.Len(t, scoped.Teachers, 1)
	assert.Equal(t, "t1", scoped.Teachers[0].ID)
	assert.Len(t, scoped.Records, 1)
	assert.Equal(t, "r1", scoped.Records[0].ID)
	assert.Len(t, scoped.Categories, 2)
}

func TestScopeCollectionsTeacherWithoutAssignedClass(t *testing.T) {
	snapshot := sampleSnapshot()
	teacherID := "t1"
	session := &models.UserSession{
		Role:      models.RoleTeacher,
		TeacherID: &teacherID,
	}

	scoped := ScopeCollections(session, snapshot)
	assert.Empty(t, scoped.Classes)
	assert.Empty(t, scoped.Students)
	assert.Empty(t, scoped.Records)
	assert.Len(t, scoped.Teachers, 1)
	assert.Len(t, scoped.Categories, 2)
}
