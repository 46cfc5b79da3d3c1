package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// GetEvent retrieves a single event by id
func (d *DB) GetEvent(ctx context.Context, id string) (*db.Event, error) {
	var e db.Event
	var collegeID *string
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, description, location, date, status, organizer_id, college_id, created_at
		FROM events
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Description, &e.Location, &e.Date, &e.Status, &e.OrganizerID, &collegeID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	if collegeID != nil {
		e.CollegeID = *collegeID
	}
	return &e, nil
}

// GetEvents retrieves events, optionally filtered by status
func (d *DB) GetEvents(ctx context.Context, status string) ([]db.Event, error) {
	query := `
		SELECT id, name, description, location, date, status, organizer_id, college_id, created_at
		FROM events
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY date`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		var e db.Event
		var collegeID *string
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Location, &e.Date, &e.Status, &e.OrganizerID, &collegeID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if collegeID != nil {
			e.CollegeID = *collegeID
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// InsertEvent creates the event and its shifts in a single transaction
func (d *DB) InsertEvent(ctx context.Context, event *db.Event, shifts []db.Shift) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var collegeID *string
	if event.CollegeID != "" {
		collegeID = &event.CollegeID
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO events (id, name, description, location, date, status, organizer_id, college_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Name, event.Description, event.Location, event.Date, event.Status, event.OrganizerID, collegeID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertShifts(ctx, tx, shifts); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetEventStatus updates an event's lifecycle status
func (d *DB) SetEventStatus(ctx context.Context, id, status string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE events SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to set event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// InsertCollegeEvent creates the college profile, the event and its shifts
// in a single transaction so that an interrupted creation leaves no
// partial state
func (d *DB) InsertCollegeEvent(ctx context.Context, college *db.College, event *db.Event, shifts []db.Shift) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO colleges (id, name, image_url)
		VALUES ($1, $2, $3)
	`, college.ID, college.Name, college.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to insert college: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO events (id, name, description, location, date, status, organizer_id, college_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Name, event.Description, event.Location, event.Date, event.Status, event.OrganizerID, college.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertShifts(ctx, tx, shifts); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
