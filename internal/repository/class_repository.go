package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ebd-pro/console-api/internal/models"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes ordered by name.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, name, teacher, category, created_at, updated_at FROM classes ORDER BY name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, teacher, category, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByTeacherName returns every class whose teacher name-string matches.
// More than one row means the teacher-to-class link is ambiguous; the
// caller decides what that implies.
func (r *ClassRepository) FindByTeacherName(ctx context.Context, name string) ([]models.Class, error) {
	const query = `SELECT id, name, teacher, category, created_at, updated_at FROM classes WHERE teacher = $1`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, name); err != nil {
		return nil, fmt.Errorf("find classes by teacher: %w", err)
	}
	return classes, nil
}

// CountByTeacherName counts classes referencing a teacher by name.
func (r *ClassRepository) CountByTeacherName(ctx context.Context, name string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes WHERE teacher = $1`, name); err != nil {
		return 0, fmt.Errorf("count classes by teacher: %w", err)
	}
	return count, nil
}

// CountByCategoryName counts classes referencing a category by name.
func (r *ClassRepository) CountByCategoryName(ctx context.Context, name string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes WHERE category = $1`, name); err != nil {
		return 0, fmt.Errorf("count classes by category: %w", err)
	}
	return count, nil
}

// Upsert inserts or updates a class keyed by id.
func (r *ClassRepository) Upsert(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, teacher, category, created_at, updated_at)
		VALUES (:id, :name, :teacher, :category, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, teacher = EXCLUDED.teacher, category = EXCLUDED.category, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("upsert class: %w", err)
	}
	return nil
}

// Delete removes a class record.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
