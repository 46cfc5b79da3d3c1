package db

import (
	"context"
	"time"
)

// EventStore defines the interface for event database operations
type EventStore interface {
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetEvents(ctx context.Context, status string) ([]Event, error)
	// InsertEvent creates the event and its shifts in a single
	// transaction, so a failed shift write never strands an event
	InsertEvent(ctx context.Context, event *Event, shifts []Shift) error
	SetEventStatus(ctx context.Context, id, status string) error
	// InsertCollegeEvent creates the college profile, the event and its
	// shifts in a single transaction
	InsertCollegeEvent(ctx context.Context, college *College, event *Event, shifts []Shift) error
}

// ShiftStore defines the interface for shift database operations
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (*Shift, error)
	GetShiftsByEvent(ctx context.Context, eventID string) ([]Shift, error)
}

// RosterStore defines the interface for roster entry database operations
type RosterStore interface {
	GetEntry(ctx context.Context, id string) (*RosterEntry, error)
	GetActiveEntry(ctx context.Context, volunteerID, shiftID string) (*RosterEntry, error)
	GetEntriesByVolunteer(ctx context.Context, volunteerID string) ([]EntryWithShift, error)
	GetEntriesByEvent(ctx context.Context, eventID string) ([]EntryWithShift, error)

	// InsertEntry creates the entry and increments the shift's filled
	// count in one transaction. When enforceCapacity is set the increment
	// is conditional on filled_count < required_count and the insert
	// fails with ErrShiftFull when no seat remains.
	InsertEntry(ctx context.Context, entry *RosterEntry, enforceCapacity bool) error

	// MoveEntry reassigns the entry to a new shift, adjusting both
	// shifts' filled counts in one transaction. Returns ErrAlreadyJoined
	// when the volunteer already holds an entry on the target shift.
	MoveEntry(ctx context.Context, entryID, newShiftID string) error

	// DeleteEntry removes the entry and decrements the shift's filled
	// count in one transaction. Returns ErrNotFound for a missing id.
	DeleteEntry(ctx context.Context, entryID string) error

	SetEntryStatus(ctx context.Context, entryID, status string) error

	// TransferEntry reassigns the entry's owning volunteer and marks the
	// swap request resolved in one transaction. Returns ErrAlreadyJoined
	// when the new volunteer already holds an entry on the same shift.
	TransferEntry(ctx context.Context, entryID, newVolunteerID, requestID, requestStatus string, resolvedAt time.Time) error
}

// SwapStore defines the interface for swap request database operations
type SwapStore interface {
	GetSwapRequest(ctx context.Context, id string) (*SwapRequest, error)
	GetPendingSwapForEntry(ctx context.Context, entryID string) (*SwapRequest, error)
	GetSwapRequestsForVolunteer(ctx context.Context, volunteerID string) ([]SwapRequest, error)
	InsertSwapRequest(ctx context.Context, request *SwapRequest) error
	SetSwapRequestStatus(ctx context.Context, id, status string, resolvedAt time.Time) error
}

// VolunteerStore defines the interface for volunteer database operations
type VolunteerStore interface {
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)
	GetVolunteerByEmail(ctx context.Context, email string) (*Volunteer, error)
	InsertVolunteer(ctx context.Context, volunteer *Volunteer) error
	// AddCompletedHours accumulates hours and bumps the event count for
	// the volunteer
	AddCompletedHours(ctx context.Context, volunteerID string, hours float64) error
}

// StatsStore defines the interface for dashboard aggregation queries,
// each recomputed from the ledger rather than read from cached counters
type StatsStore interface {
	SumCompletedHours(ctx context.Context) (float64, error)
	CountActiveVolunteers(ctx context.Context) (int, error)
	CountOpenShifts(ctx context.Context) (int, error)
	CountEventsByStatus(ctx context.Context) (map[string]int, error)
}
