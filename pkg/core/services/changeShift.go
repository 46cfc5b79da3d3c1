package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// ChangeShift reassigns an existing roster entry to a different shift. The
// caller must own the entry. Both shifts' filled counts are adjusted in the
// same store transaction; the new shift's remaining capacity is not checked.
func ChangeShift(ctx context.Context, shifts db.ShiftStore, roster db.RosterStore, logger *zap.Logger, volunteerID, entryID, newShiftID string) error {
	entry, err := roster.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.VolunteerID != volunteerID {
		return db.ErrNotOwner
	}

	if _, err := shifts.GetShift(ctx, newShiftID); err != nil {
		return err
	}

	if err := roster.MoveEntry(ctx, entryID, newShiftID); err != nil {
		if errors.Is(err, db.ErrAlreadyJoined) {
			return err
		}
		return fmt.Errorf("failed to move roster entry: %w", err)
	}

	logger.Info("Roster entry moved",
		zap.String("entry_id", entryID),
		zap.String("old_shift_id", entry.ShiftID),
		zap.String("new_shift_id", newShiftID))

	return nil
}
