package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ebd-pro/console-api/internal/models"
)

// ProfileRepository manages the role registry. Profiles share their id
// with the authentication identity they describe.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a new profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List returns all profiles, newest first.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	const query = `SELECT id, email, full_name, role, created_at FROM profiles ORDER BY created_at DESC`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// FindByID returns the profile keyed by the given identity id.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, email, full_name, role, created_at FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a profile row. The id must match an existing identity.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO profiles (id, email, full_name, role, created_at)
		VALUES (:id, :email, :full_name, :role, :created_at)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// Update modifies the display name and role of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	const query = `UPDATE profiles SET full_name = :full_name, role = :role WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Delete removes a profile row, revoking the identity's resolved role.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
