package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// JoinShift signs a volunteer up for an event. It selects the first shift
// of the event with remaining capacity (falling back to the first shift
// when every shift is full and capacity is informational), rejects a
// duplicate active entry with ErrAlreadyJoined, and creates the entry with
// status confirmed. The entry insert and the shift's filled count update
// happen in one store transaction.
func JoinShift(ctx context.Context, shifts db.ShiftStore, roster db.RosterStore, logger *zap.Logger, volunteerID, eventID string, enforceCapacity bool) (*db.RosterEntry, error) {
	logger.Info("Joining shift", zap.String("volunteer_id", volunteerID), zap.String("event_id", eventID))

	eventShifts, err := shifts.GetShiftsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	if len(eventShifts) == 0 {
		return nil, fmt.Errorf("event %s has no shifts: %w", eventID, db.ErrNotFound)
	}

	// One active entry per volunteer per event
	for _, s := range eventShifts {
		existing, err := roster.GetActiveEntry(ctx, volunteerID, s.ID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing entry: %w", err)
		}
		if existing != nil {
			logger.Info("Volunteer already joined",
				zap.String("volunteer_id", volunteerID),
				zap.String("shift_id", s.ID))
			return nil, db.ErrAlreadyJoined
		}
	}

	target := pickShift(eventShifts, enforceCapacity)
	if target == nil {
		return nil, db.ErrShiftFull
	}

	entry := &db.RosterEntry{
		ID:          uuid.New().String(),
		ShiftID:     target.ID,
		VolunteerID: volunteerID,
		Status:      db.EntryConfirmed,
		JoinedAt:    time.Now().UTC(),
	}

	if err := roster.InsertEntry(ctx, entry, enforceCapacity); err != nil {
		// A concurrent join can land after the duplicate check above and
		// surface as a typed conflict from the store
		if errors.Is(err, db.ErrShiftFull) || errors.Is(err, db.ErrAlreadyJoined) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert roster entry: %w", err)
	}

	logger.Info("Roster entry created",
		zap.String("entry_id", entry.ID),
		zap.String("shift_id", target.ID),
		zap.String("role", target.Role))

	return entry, nil
}

// pickShift returns the first shift with a free seat. When none has one
// and capacity is not enforced, the first shift is used anyway.
func pickShift(shifts []db.Shift, enforceCapacity bool) *db.Shift {
	for i := range shifts {
		if shifts[i].FilledCount < shifts[i].RequiredCount {
			return &shifts[i]
		}
	}
	if enforceCapacity || len(shifts) == 0 {
		return nil
	}
	return &shifts[0]
}
