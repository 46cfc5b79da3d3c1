package db

import "errors"

// Business-rule failures returned as typed errors so callers can
// distinguish them from store failures
var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyJoined is returned when a volunteer already holds an
	// active entry for the shift
	ErrAlreadyJoined = errors.New("volunteer already joined this shift")

	// ErrShiftFull is returned when capacity enforcement is enabled and
	// the shift has no remaining seats
	ErrShiftFull = errors.New("shift is at capacity")

	// ErrNotOwner is returned when a volunteer acts on an entry they do not own
	ErrNotOwner = errors.New("volunteer does not own this roster entry")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account
	ErrEmailTaken = errors.New("email is already registered")

	// ErrDuplicateSwap is returned when a pending swap request already
	// exists for the entry
	ErrDuplicateSwap = errors.New("a pending swap request already exists for this entry")

	// ErrAlreadyResolved is returned when responding to a swap request
	// that is no longer pending
	ErrAlreadyResolved = errors.New("swap request already resolved")
)
