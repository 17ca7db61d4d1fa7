package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
	"github.com/ebd-pro/console-api/pkg/export"
)

// ExportFormatCSV and ExportFormatPDF name the supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ReportService builds the attendance history tree and renders exports.
type ReportService struct {
	state  snapshotLoader
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(state snapshotLoader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		state:  state,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// History groups the session's visible attendance records into the
// year, quarter, month and week-of-month tree, newest first at every
// level.
func (s *ReportService) History(ctx context.Context, session *models.UserSession) ([]models.ReportYear, error) {
	snapshot, err := s.state.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	return GroupHistory(snapshot.Records), nil
}

// Export renders the session's visible records as a flat table in the
// requested format.
func (s *ReportService) Export(ctx context.Context, session *models.UserSession, format string) ([]byte, string, error) {
	snapshot, err := s.state.Snapshot(ctx, session)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Title:   "Attendance history",
		Headers: []string{"Date", "Class", "Present", "Bibles", "Tithes", "Visitors", "Lesson"},
	}
	classNames := make(map[string]string, len(snapshot.Classes))
	for _, class := range snapshot.Classes {
		classNames[class.ID] = class.Name
	}
	for _, record := range snapshot.Records {
		name := classNames[record.ClassID]
		if name == "" {
			name = record.ClassID
		}
		table.Rows = append(table.Rows, []string{
			record.Date.Format("2006-01-02"),
			name,
			strconv.Itoa(record.PresentCount()),
			strconv.Itoa(record.BibleCount),
			fmt.Sprintf("%.2f", record.TitheAmount),
			strconv.Itoa(record.VisitorCount),
			record.LessonTheme,
		})
	}

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

// weekOfMonth buckets a date into 1..5 by its day of month.
func weekOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// GroupHistory arranges records into the nested history tree. Records
// within a week stay newest first; weeks, months, quarters and years sort
// descending.
func GroupHistory(records []models.AttendanceRecord) []models.ReportYear {
	type weekKey struct {
		year, quarter, month, week int
	}
	weeks := make(map[weekKey][]models.AttendanceRecord)
	for _, record := range records {
		date := record.Date.UTC()
		key := weekKey{
			year:    date.Year(),
			quarter: (int(date.Month())-1)/3 + 1,
			month:   int(date.Month()),
			week:    weekOfMonth(date),
		}
		weeks[key] = append(weeks[key], record)
	}

	years := make(map[int]map[int]map[int]map[int][]models.AttendanceRecord)
	for key, group := range weeks {
		if years[key.year] == nil {
			years[key.year] = make(map[int]map[int]map[int][]models.AttendanceRecord)
		}
		if years[key.year][key.quarter] == nil {
			years[key.year][key.quarter] = make(map[int]map[int][]models.AttendanceRecord)
		}
		if years[key.year][key.quarter][key.month] == nil {
			years[key.year][key.quarter][key.month] = make(map[int][]models.AttendanceRecord)
		}
		years[key.year][key.quarter][key.month][key.week] = group
	}

	result := make([]models.ReportYear, 0, len(years))
	for year, quarters := range years {
		reportYear := models.ReportYear{Year: year}
		for quarter, months := range quarters {
			reportQuarter := models.ReportQuarter{Quarter: quarter}
			for month, weekGroups := range months {
				reportMonth := models.ReportMonth{Month: month}
				for week, group := range weekGroups {
					sort.Slice(group, func(i, j int) bool {
						return group[i].Date.After(group[j].Date)
					})
					reportWeek := models.ReportWeek{Week: week, Records: group}
					for _, record := range group {
						reportWeek.Tithes += record.TitheAmount
						reportWeek.Presence += record.PresentCount()
					}
					reportMonth.Lessons += len(group)
					reportMonth.Weeks = append(reportMonth.Weeks, reportWeek)
				}
				sort.Slice(reportMonth.Weeks, func(i, j int) bool {
					return reportMonth.Weeks[i].Week > reportMonth.Weeks[j].Week
				})
				reportQuarter.Months = append(reportQuarter.Months, reportMonth)
			}
			sort.Slice(reportQuarter.Months, func(i, j int) bool {
				return reportQuarter.Months[i].Month > reportQuarter.Months[j].Month
			})
			reportYear.Quarters = append(reportYear.Quarters, reportQuarter)
		}
		sort.Slice(reportYear.Quarters, func(i, j int) bool {
			return reportYear.Quarters[i].Quarter > reportYear.Quarters[j].Quarter
		})
		result = append(result, reportYear)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year > result[j].Year
	})
	return result
}
