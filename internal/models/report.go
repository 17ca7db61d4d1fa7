package models

// ReportWeek groups the lessons recorded within one week of a month,
// newest lesson first, with the week's tithe and presence totals.
type ReportWeek struct {
	Week     int                `json:"week"`
	Tithes   float64            `json:"tithes"`
	Presence int                `json:"presence"`
	Records  []AttendanceRecord `json:"records"`
}

// ReportMonth groups weeks within a calendar month.
type ReportMonth struct {
	Month   int          `json:"month"`
	Lessons int          `json:"lessons"`
	Weeks   []ReportWeek `json:"weeks"`
}

// ReportQuarter groups months within a quarter.
type ReportQuarter struct {
	Quarter int           `json:"quarter"`
	Months  []ReportMonth `json:"months"`
}

// ReportYear is the top level of the attendance history tree:
// year -> quarter -> month -> week-of-month.
type ReportYear struct {
	Year     int             `json:"year"`
	Quarters []ReportQuarter `json:"quarters"`
}
