package service

import "github.com/ebd-pro/console-api/internal/models"

// ScopeCollections narrows the five collections to what the session may
// see. Admin sessions pass through untouched. Teacher sessions keep their
// own roster row, their assigned class, that class's students and records,
// and every category (categories carry no per-class data). A teacher with
// no assigned class sees empty class, student and record lists.
func ScopeCollections(session *models.UserSession, snapshot models.StateSnapshot) models.StateSnapshot {
	if session == nil || session.IsAdmin() {
		return snapshot
	}

	scoped := models.StateSnapshot{
		Classes:    []models.Class{},
		Students:   []models.Student{},
		Teachers:   []models.Teacher{},
		Categories: snapshot.Categories,
		Records:    []models.AttendanceRecord{},
	}

	if session.TeacherID != nil {
		for _, teacher := range snapshot.Teachers {
			if teacher.ID == *session.TeacherID {
				scoped.Teachers = append(scoped.Teachers, teacher)
				break
			}
		}
	}

	if session.AssignedClassID == nil {
		return scoped
	}
	classID := *session.AssignedClassID

	for _, class := range snapshot.Classes {
		if class.ID == classID {
			scoped.Classes = append(scoped.Classes, class)
			break
		}
	}
	for _, student := range snapshot.Students {
		if student.ClassID == classID {
			scoped.Students = append(scoped.Students, student)
		}
	}
	for _, record := range snapshot.Records {
		if record.ClassID == classID {
			scoped.Records = append(scoped.Records, record)
		}
	}

	return scoped
}
