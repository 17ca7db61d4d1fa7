package models

import (
	"time"

	"github.com/lib/pq"
)

// AttendanceRecord captures a single lesson for a class: who showed up,
// how many bibles and visitors, the tithe collected and the lesson theme.
// One record per (class, date). PresentStudentIDs is not validated against
// the class roster; students removed later leave dangling ids in old
// records, which downstream aggregation tolerates.
type AttendanceRecord struct {
	ID                string         `db:"id" json:"id"`
	Date              time.Time      `db:"date" json:"date"`
	ClassID           string         `db:"class_id" json:"class_id"`
	PresentStudentIDs pq.StringArray `db:"present_student_ids" json:"present_student_ids"`
	BibleCount        int            `db:"bible_count" json:"bible_count"`
	TitheAmount       float64        `db:"tithe_amount" json:"tithe_amount"`
	VisitorCount      int            `db:"visitor_count" json:"visitor_count"`
	LessonTheme       string         `db:"lesson_theme" json:"lesson_theme"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// PresentCount returns the number of present students, treating a nil
// slice as zero.
func (r AttendanceRecord) PresentCount() int {
	return len(r.PresentStudentIDs)
}
