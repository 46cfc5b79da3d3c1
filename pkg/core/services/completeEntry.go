package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// CheckInEntry marks a confirmed entry as checked in
func CheckInEntry(ctx context.Context, roster db.RosterStore, logger *zap.Logger, entryID string) error {
	if err := roster.SetEntryStatus(ctx, entryID, db.EntryCheckIn); err != nil {
		return err
	}
	logger.Info("Roster entry checked in", zap.String("entry_id", entryID))
	return nil
}

// CompleteEntry marks an entry completed and credits the volunteer with the
// shift's hours. Hours are the shift's end minus start clamped to
// non-negative, the same figure the certificate builder reports.
func CompleteEntry(ctx context.Context, shifts db.ShiftStore, roster db.RosterStore, volunteers db.VolunteerStore, logger *zap.Logger, entryID string) (float64, error) {
	entry, err := roster.GetEntry(ctx, entryID)
	if err != nil {
		return 0, err
	}

	shift, err := shifts.GetShift(ctx, entry.ShiftID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch shift: %w", err)
	}

	if err := roster.SetEntryStatus(ctx, entryID, db.EntryCompleted); err != nil {
		return 0, fmt.Errorf("failed to complete entry: %w", err)
	}

	hours := ShiftHours(shift.Start, shift.End)
	if err := volunteers.AddCompletedHours(ctx, entry.VolunteerID, hours); err != nil {
		return 0, fmt.Errorf("failed to credit hours: %w", err)
	}

	logger.Info("Roster entry completed",
		zap.String("entry_id", entryID),
		zap.String("volunteer_id", entry.VolunteerID),
		zap.Float64("hours", hours))

	return hours, nil
}
