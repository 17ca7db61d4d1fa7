package models

import "time"

// DashboardSummary carries the top-line totals shown on the admin
// dashboard cards.
type DashboardSummary struct {
	TotalTithes   float64 `json:"total_tithes"`
	TotalPresence int     `json:"total_presence"`
	TotalAbsent   int     `json:"total_absent"`
	TotalVisitors int     `json:"total_visitors"`
	TotalBibles   int     `json:"total_bibles"`
	TotalClasses  int     `json:"total_classes"`
}

// ClassBreakdownRow is one chart row: the per-class sums across all of
// that class's attendance records.
type ClassBreakdownRow struct {
	ClassID  string  `json:"class_id"`
	Name     string  `json:"name"`
	Presence int     `json:"presence"`
	Tithes   float64 `json:"tithes"`
	Bibles   int     `json:"bibles"`
	Visitors int     `json:"visitors"`
	Absent   int     `json:"absent"`
}

// BirthdayStudent is a student whose birthday falls in the current week.
type BirthdayStudent struct {
	StudentID string     `json:"student_id"`
	Name      string     `json:"name"`
	ClassID   string     `json:"class_id"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// TimelinePoint is one lesson on the teacher dashboard evolution chart.
type TimelinePoint struct {
	Date     time.Time `json:"date"`
	Presence int       `json:"presence"`
	Tithes   float64   `json:"tithes"`
	Visitors int       `json:"visitors"`
}

// TeacherDashboard summarises a single class for its teacher.
type TeacherDashboard struct {
	ClassID         string          `json:"class_id"`
	ClassName       string          `json:"class_name"`
	Category        string          `json:"category"`
	Lessons         int             `json:"lessons"`
	TotalTithes     float64         `json:"total_tithes"`
	AveragePresence float64         `json:"average_presence"`
	TotalVisitors   int             `json:"total_visitors"`
	ActiveStudents  int             `json:"active_students"`
	Timeline        []TimelinePoint `json:"timeline"`
}

// AdminDashboard is the full admin dashboard payload.
type AdminDashboard struct {
	Summary   DashboardSummary    `json:"summary"`
	ByClass   []ClassBreakdownRow `json:"by_class"`
	Birthdays []BirthdayStudent   `json:"birthdays_this_week"`
}

// StateSnapshot bundles all five collections, scoped to the caller, in a
// single response. Mirrors the full-reload model: after any mutation the
// client re-fetches the snapshot rather than patching local state.
type StateSnapshot struct {
	Classes    []Class            `json:"classes"`
	Students   []Student          `json:"students"`
	Teachers   []Teacher          `json:"teachers"`
	Categories []Category         `json:"categories"`
	Records    []AttendanceRecord `json:"attendance_records"`
}
