package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// GetShift retrieves a single shift by id
func (d *DB) GetShift(ctx context.Context, id string) (*db.Shift, error) {
	var s db.Shift
	err := d.pool.QueryRow(ctx, `
		SELECT id, event_id, role, start_time, end_time, required_count, filled_count
		FROM shifts
		WHERE id = $1
	`, id).Scan(&s.ID, &s.EventID, &s.Role, &s.Start, &s.End, &s.RequiredCount, &s.FilledCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shift: %w", err)
	}
	return &s, nil
}

// GetShiftsByEvent retrieves all shifts for an event ordered by start time
func (d *DB) GetShiftsByEvent(ctx context.Context, eventID string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, event_id, role, start_time, end_time, required_count, filled_count
		FROM shifts
		WHERE event_id = $1
		ORDER BY start_time
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		var s db.Shift
		if err := rows.Scan(&s.ID, &s.EventID, &s.Role, &s.Start, &s.End, &s.RequiredCount, &s.FilledCount); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// insertShifts inserts shift records within the caller's transaction
func insertShifts(ctx context.Context, tx pgx.Tx, shifts []db.Shift) error {
	for _, s := range shifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shifts (id, event_id, role, start_time, end_time, required_count, filled_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.ID, s.EventID, s.Role, s.Start, s.End, s.RequiredCount, s.FilledCount)
		if err != nil {
			return fmt.Errorf("failed to insert shift: %w", err)
		}
	}
	return nil
}
