package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// CancelEntry removes a volunteer's roster entry. The caller must own the
// entry. Cancelling an id that no longer exists returns ErrNotFound rather
// than failing hard, so a stale client retry is harmless.
func CancelEntry(ctx context.Context, roster db.RosterStore, logger *zap.Logger, volunteerID, entryID string) error {
	entry, err := roster.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			logger.Info("Cancel of missing entry ignored", zap.String("entry_id", entryID))
		}
		return err
	}
	if entry.VolunteerID != volunteerID {
		return db.ErrNotOwner
	}

	if err := roster.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}

	logger.Info("Roster entry cancelled",
		zap.String("entry_id", entryID),
		zap.String("shift_id", entry.ShiftID))

	return nil
}
