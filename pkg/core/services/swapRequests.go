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

// Notifier sends volunteer-facing email. A nil Notifier disables
// notifications; notification failures never fail the operation.
type Notifier interface {
	SendEmail(to, subject, body string) error
}

// CreateSwapRequest proposes transferring a roster entry from the sender
// to the receiver. The sender must own the entry and only one pending
// request may target an entry at a time.
func CreateSwapRequest(ctx context.Context, roster db.RosterStore, swaps db.SwapStore, volunteers db.VolunteerStore, notifier Notifier, logger *zap.Logger, senderID, receiverID, entryID string) (*db.SwapRequest, error) {
	entry, err := roster.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.VolunteerID != senderID {
		return nil, db.ErrNotOwner
	}

	existing, err := swaps.GetPendingSwapForEntry(ctx, entryID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending swaps: %w", err)
	}
	if existing != nil {
		return nil, db.ErrDuplicateSwap
	}

	request := &db.SwapRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		EntryID:    entryID,
		Status:     db.SwapPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := swaps.InsertSwapRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to insert swap request: %w", err)
	}

	logger.Info("Swap request created",
		zap.String("request_id", request.ID),
		zap.String("sender_id", senderID),
		zap.String("receiver_id", receiverID),
		zap.String("entry_id", entryID))

	notifySwap(ctx, volunteers, notifier, logger, receiverID,
		"Shift swap request",
		"A volunteer has asked you to take over one of their shifts. Log in to respond.")

	return request, nil
}

// RespondToSwapRequest resolves a pending swap request. Only the named
// receiver may respond. Accepting transfers the entry's ownership to the
// receiver and marks the request accepted in one store transaction, so a
// transferred entry can never be left behind a still-pending request.
// Declining marks the request declined with no other effect; the sender
// may retry with a new request.
func RespondToSwapRequest(ctx context.Context, roster db.RosterStore, swaps db.SwapStore, volunteers db.VolunteerStore, notifier Notifier, logger *zap.Logger, receiverID, requestID string, accept bool) (*db.SwapRequest, error) {
	request, err := swaps.GetSwapRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != receiverID {
		return nil, db.ErrNotOwner
	}
	if request.Status != db.SwapPending {
		return nil, db.ErrAlreadyResolved
	}

	now := time.Now().UTC()

	if accept {
		if err := roster.TransferEntry(ctx, request.EntryID, request.ReceiverID, request.ID, db.SwapAccepted, now); err != nil {
			// The receiver may already hold an entry on the same shift;
			// the request stays pending so they can decline instead
			if errors.Is(err, db.ErrAlreadyJoined) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to transfer roster entry: %w", err)
		}
		request.Status = db.SwapAccepted
		logger.Info("Swap request accepted",
			zap.String("request_id", request.ID),
			zap.String("entry_id", request.EntryID),
			zap.String("new_owner_id", request.ReceiverID))
		notifySwap(ctx, volunteers, notifier, logger, request.SenderID,
			"Shift swap accepted",
			"Your shift swap request was accepted. The shift is no longer on your schedule.")
	} else {
		if err := swaps.SetSwapRequestStatus(ctx, request.ID, db.SwapDeclined, now); err != nil {
			return nil, fmt.Errorf("failed to decline swap request: %w", err)
		}
		request.Status = db.SwapDeclined
		logger.Info("Swap request declined", zap.String("request_id", request.ID))
		notifySwap(ctx, volunteers, notifier, logger, request.SenderID,
			"Shift swap declined",
			"Your shift swap request was declined. The shift remains on your schedule.")
	}

	request.ResolvedAt = &now
	return request, nil
}

// notifySwap emails a volunteer about swap activity, best effort
func notifySwap(ctx context.Context, volunteers db.VolunteerStore, notifier Notifier, logger *zap.Logger, volunteerID, subject, body string) {
	if notifier == nil {
		return
	}

	volunteer, err := volunteers.GetVolunteer(ctx, volunteerID)
	if err != nil {
		logger.Warn("Skipping swap notification, volunteer lookup failed",
			zap.String("volunteer_id", volunteerID), zap.Error(err))
		return
	}

	if err := notifier.SendEmail(volunteer.Email, subject, body); err != nil {
		logger.Warn("Failed to send swap notification",
			zap.String("volunteer_id", volunteerID), zap.Error(err))
	}
}
