package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// GetEntry retrieves a single roster entry by id
func (d *DB) GetEntry(ctx context.Context, id string) (*db.RosterEntry, error) {
	var e db.RosterEntry
	err := d.pool.QueryRow(ctx, `
		SELECT id, shift_id, volunteer_id, status, joined_at
		FROM roster_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.ShiftID, &e.VolunteerID, &e.Status, &e.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entry: %w", err)
	}
	return &e, nil
}

// GetActiveEntry retrieves the entry a volunteer holds on a shift, if any
func (d *DB) GetActiveEntry(ctx context.Context, volunteerID, shiftID string) (*db.RosterEntry, error) {
	var e db.RosterEntry
	err := d.pool.QueryRow(ctx, `
		SELECT id, shift_id, volunteer_id, status, joined_at
		FROM roster_entries
		WHERE volunteer_id = $1 AND shift_id = $2
	`, volunteerID, shiftID).Scan(&e.ID, &e.ShiftID, &e.VolunteerID, &e.Status, &e.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entry: %w", err)
	}
	return &e, nil
}

const entryWithShiftColumns = `
	r.id, r.shift_id, r.volunteer_id, r.status, r.joined_at,
	s.id, s.event_id, s.role, s.start_time, s.end_time, s.required_count, s.filled_count,
	e.id, e.name
`

func scanEntryWithShift(rows pgx.Rows) (db.EntryWithShift, error) {
	var ews db.EntryWithShift
	err := rows.Scan(
		&ews.Entry.ID, &ews.Entry.ShiftID, &ews.Entry.VolunteerID, &ews.Entry.Status, &ews.Entry.JoinedAt,
		&ews.Shift.ID, &ews.Shift.EventID, &ews.Shift.Role, &ews.Shift.Start, &ews.Shift.End,
		&ews.Shift.RequiredCount, &ews.Shift.FilledCount,
		&ews.EventID, &ews.EventName,
	)
	return ews, err
}

// GetEntriesByVolunteer retrieves a volunteer's entries with shift and
// event context, ordered by shift start time
func (d *DB) GetEntriesByVolunteer(ctx context.Context, volunteerID string) ([]db.EntryWithShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+entryWithShiftColumns+`
		FROM roster_entries r
		JOIN shifts s ON s.id = r.shift_id
		JOIN events e ON e.id = s.event_id
		WHERE r.volunteer_id = $1
		ORDER BY s.start_time
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entries: %w", err)
	}
	defer rows.Close()

	var results []db.EntryWithShift
	for rows.Next() {
		ews, err := scanEntryWithShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		results = append(results, ews)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster entries: %w", err)
	}

	return results, nil
}

// GetEntriesByEvent retrieves all entries across an event's shifts
func (d *DB) GetEntriesByEvent(ctx context.Context, eventID string) ([]db.EntryWithShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+entryWithShiftColumns+`
		FROM roster_entries r
		JOIN shifts s ON s.id = r.shift_id
		JOIN events e ON e.id = s.event_id
		WHERE s.event_id = $1
		ORDER BY s.start_time, r.joined_at
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entries: %w", err)
	}
	defer rows.Close()

	var results []db.EntryWithShift
	for rows.Next() {
		ews, err := scanEntryWithShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		results = append(results, ews)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster entries: %w", err)
	}

	return results, nil
}

// InsertEntry creates the entry and increments the shift's filled count in
// one transaction. With enforceCapacity set the increment is conditional on
// a free seat, so concurrent joins cannot push a shift past its capacity.
func (d *DB) InsertEntry(ctx context.Context, entry *db.RosterEntry, enforceCapacity bool) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	increment := `
		UPDATE shifts SET filled_count = filled_count + 1
		WHERE id = $1
	`
	if enforceCapacity {
		increment += ` AND filled_count < required_count`
	}

	tag, err := tx.Exec(ctx, increment, entry.ShiftID)
	if err != nil {
		return fmt.Errorf("failed to increment filled count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if enforceCapacity {
			return db.ErrShiftFull
		}
		return db.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO roster_entries (id, shift_id, volunteer_id, status, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.ShiftID, entry.VolunteerID, entry.Status, entry.JoinedAt)
	if isUniqueViolation(err) {
		return db.ErrAlreadyJoined
	}
	if err != nil {
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MoveEntry reassigns the entry to a new shift, adjusting both shifts'
// filled counts in the same transaction
func (d *DB) MoveEntry(ctx context.Context, entryID, newShiftID string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldShiftID string
	err = tx.QueryRow(ctx, `
		SELECT shift_id FROM roster_entries WHERE id = $1 FOR UPDATE
	`, entryID).Scan(&oldShiftID)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query roster entry: %w", err)
	}

	if oldShiftID == newShiftID {
		return tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE roster_entries SET shift_id = $2 WHERE id = $1
	`, entryID, newShiftID)
	if isUniqueViolation(err) {
		return db.ErrAlreadyJoined
	}
	if err != nil {
		return fmt.Errorf("failed to move roster entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE shifts SET filled_count = filled_count - 1 WHERE id = $1
	`, oldShiftID)
	if err != nil {
		return fmt.Errorf("failed to decrement filled count: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE shifts SET filled_count = filled_count + 1 WHERE id = $1
	`, newShiftID)
	if err != nil {
		return fmt.Errorf("failed to increment filled count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteEntry removes the entry and decrements the shift's filled count in
// one transaction. Returns ErrNotFound for an id that does not exist.
func (d *DB) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var shiftID string
	err = tx.QueryRow(ctx, `
		DELETE FROM roster_entries WHERE id = $1 RETURNING shift_id
	`, entryID).Scan(&shiftID)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE shifts SET filled_count = filled_count - 1 WHERE id = $1
	`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to decrement filled count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetEntryStatus updates a roster entry's status
func (d *DB) SetEntryStatus(ctx context.Context, entryID, status string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE roster_entries SET status = $2 WHERE id = $1
	`, entryID, status)
	if err != nil {
		return fmt.Errorf("failed to set entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// TransferEntry reassigns the entry's owning volunteer and marks the swap
// request resolved in the same transaction, so an accepted swap can never
// leave a transferred entry behind a still-pending request
func (d *DB) TransferEntry(ctx context.Context, entryID, newVolunteerID, requestID, requestStatus string, resolvedAt time.Time) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE roster_entries SET volunteer_id = $2 WHERE id = $1
	`, entryID, newVolunteerID)
	if isUniqueViolation(err) {
		return db.ErrAlreadyJoined
	}
	if err != nil {
		return fmt.Errorf("failed to transfer roster entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE swap_requests SET status = $2, resolved_at = $3 WHERE id = $1
	`, requestID, requestStatus, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to update swap request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
