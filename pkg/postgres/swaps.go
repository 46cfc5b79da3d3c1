package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/volunteerhq/rosterd/pkg/db"
)

func scanSwapRequest(row pgx.Row) (*db.SwapRequest, error) {
	var r db.SwapRequest
	err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.EntryID, &r.Status, &r.CreatedAt, &r.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan swap request: %w", err)
	}
	return &r, nil
}

// GetSwapRequest retrieves a single swap request by id
func (d *DB) GetSwapRequest(ctx context.Context, id string) (*db.SwapRequest, error) {
	return scanSwapRequest(d.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, entry_id, status, created_at, resolved_at
		FROM swap_requests
		WHERE id = $1
	`, id))
}

// GetPendingSwapForEntry retrieves the pending swap request targeting the
// entry, if one exists
func (d *DB) GetPendingSwapForEntry(ctx context.Context, entryID string) (*db.SwapRequest, error) {
	return scanSwapRequest(d.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, entry_id, status, created_at, resolved_at
		FROM swap_requests
		WHERE entry_id = $1 AND status = 'pending'
	`, entryID))
}

// GetSwapRequestsForVolunteer retrieves swap requests where the volunteer
// is sender or receiver, newest first
func (d *DB) GetSwapRequestsForVolunteer(ctx context.Context, volunteerID string) ([]db.SwapRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, entry_id, status, created_at, resolved_at
		FROM swap_requests
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query swap requests: %w", err)
	}
	defer rows.Close()

	var requests []db.SwapRequest
	for rows.Next() {
		var r db.SwapRequest
		if err := rows.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.EntryID, &r.Status, &r.CreatedAt, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swap request: %w", err)
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swap requests: %w", err)
	}

	return requests, nil
}

// InsertSwapRequest inserts a new swap request record
func (d *DB) InsertSwapRequest(ctx context.Context, request *db.SwapRequest) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO swap_requests (id, sender_id, receiver_id, entry_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, request.ID, request.SenderID, request.ReceiverID, request.EntryID, request.Status, request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert swap request: %w", err)
	}
	return nil
}

// SetSwapRequestStatus marks a swap request resolved
func (d *DB) SetSwapRequestStatus(ctx context.Context, id, status string, resolvedAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE swap_requests SET status = $2, resolved_at = $3 WHERE id = $1
	`, id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to set swap request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
