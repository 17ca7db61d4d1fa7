package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ebd-pro/console-api/internal/models"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns all attendance records, newest first.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, date, class_id, present_student_ids, bible_count, tithe_amount,
			visitor_count, lesson_theme, created_at, updated_at
		FROM attendance_records ORDER BY date DESC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// ListByClass returns the attendance records of a class, newest first.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, date, class_id, present_student_ids, bible_count, tithe_amount,
			visitor_count, lesson_theme, created_at, updated_at
		FROM attendance_records WHERE class_id = $1 ORDER BY date DESC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID); err != nil {
		return nil, fmt.Errorf("list attendance records by class: %w", err)
	}
	return records, nil
}

// FindByID returns an attendance record by id.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	const query = `SELECT id, date, class_id, present_student_ids, bible_count, tithe_amount,
			visitor_count, lesson_theme, created_at, updated_at
		FROM attendance_records WHERE id = $1`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or updates an attendance record keyed by id.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO attendance_records
			(id, date, class_id, present_student_ids, bible_count, tithe_amount,
			 visitor_count, lesson_theme, created_at, updated_at)
		VALUES (:id, :date, :class_id, :present_student_ids, :bible_count, :tithe_amount,
			 :visitor_count, :lesson_theme, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			class_id = EXCLUDED.class_id,
			present_student_ids = EXCLUDED.present_student_ids,
			bible_count = EXCLUDED.bible_count,
			tithe_amount = EXCLUDED.tithe_amount,
			visitor_count = EXCLUDED.visitor_count,
			lesson_theme = EXCLUDED.lesson_theme,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert attendance record: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attendance record: %w", err)
	}
	return nil
}
