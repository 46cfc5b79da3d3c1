package postgres

import (
	"context"
	"fmt"
)

// SumCompletedHours recomputes total volunteered hours from the ledger:
// the clamped duration of each completed entry's shift
func (d *DB) SumCompletedHours(ctx context.Context) (float64, error) {
	var total float64
	err := d.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(GREATEST(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600, 0)), 0)
		FROM roster_entries r
		JOIN shifts s ON s.id = r.shift_id
		WHERE r.status = 'completed'
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum completed hours: %w", err)
	}
	return total, nil
}

// CountActiveVolunteers counts distinct volunteers holding confirmed or
// completed entries
func (d *DB) CountActiveVolunteers(ctx context.Context) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT volunteer_id)
		FROM roster_entries
		WHERE status IN ('confirmed', 'completed')
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active volunteers: %w", err)
	}
	return count, nil
}

// CountOpenShifts counts shifts with remaining capacity
func (d *DB) CountOpenShifts(ctx context.Context) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM shifts WHERE filled_count < required_count
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open shifts: %w", err)
	}
	return count, nil
}

// CountEventsByStatus counts events grouped by lifecycle status
func (d *DB) CountEventsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM events GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event counts: %w", err)
	}

	return counts, nil
}
