package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/volunteerhq/rosterd/pkg/db"
)

func scanVolunteer(row pgx.Row) (*db.Volunteer, error) {
	var v db.Volunteer
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.PasswordHash, &v.Skills, &v.TotalHours, &v.EventCount, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan volunteer: %w", err)
	}
	return &v, nil
}

// GetVolunteer retrieves a single volunteer by id
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	return scanVolunteer(d.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, skills, total_hours, event_count, created_at
		FROM volunteers
		WHERE id = $1
	`, id))
}

// GetVolunteerByEmail retrieves a single volunteer by email
func (d *DB) GetVolunteerByEmail(ctx context.Context, email string) (*db.Volunteer, error) {
	return scanVolunteer(d.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, skills, total_hours, event_count, created_at
		FROM volunteers
		WHERE email = $1
	`, email))
}

// InsertVolunteer inserts a new volunteer record. A duplicate email is
// reported as ErrEmailTaken.
func (d *DB) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteers (id, name, email, password_hash, skills)
		VALUES ($1, $2, $3, $4, $5)
	`, volunteer.ID, volunteer.Name, volunteer.Email, volunteer.PasswordHash, volunteer.Skills)
	if isUniqueViolation(err) {
		return db.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// AddCompletedHours accumulates hours and bumps the event count for the volunteer
func (d *DB) AddCompletedHours(ctx context.Context, volunteerID string, hours float64) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteers
		SET total_hours = total_hours + $2, event_count = event_count + 1
		WHERE id = $1
	`, volunteerID, hours)
	if err != nil {
		return fmt.Errorf("failed to add completed hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
