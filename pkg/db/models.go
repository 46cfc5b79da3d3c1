package db

import "time"

// Event status values
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
)

// RosterEntry status values
const (
	EntryPending   = "pending"
	EntryConfirmed = "confirmed"
	EntryCheckIn   = "checkin"
	EntryCompleted = "completed"
)

// SwapRequest status values
const (
	SwapPending  = "pending"
	SwapAccepted = "accepted"
	SwapDeclined = "declined"
)

// Event represents a volunteering event
type Event struct {
	ID          string
	Name        string
	Description string
	Location    string
	Date        time.Time
	Status      string
	OrganizerID string
	CollegeID   string
	CreatedAt   time.Time
}

// Shift represents a time-boxed volunteering slot within an event
// FilledCount is maintained transactionally alongside roster entry writes
// so that it always equals the number of active entries for the shift
type Shift struct {
	ID            string
	EventID       string
	Role          string
	Start         time.Time
	End           time.Time
	RequiredCount int
	FilledCount   int
}

// RosterEntry records one volunteer's assignment to one shift
type RosterEntry struct {
	ID          string
	ShiftID     string
	VolunteerID string
	Status      string
	JoinedAt    time.Time
}

// SwapRequest is a proposal to transfer a roster entry's ownership
// from the sender to the receiver
type SwapRequest struct {
	ID          string
	SenderID    string
	ReceiverID  string
	EntryID     string
	Status      string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// Volunteer represents a registered volunteer account
// TotalHours and EventCount are accumulated when entries complete;
// dashboard figures are recomputed from the ledger instead
type Volunteer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Skills       []string
	TotalHours   float64
	EventCount   int
	CreatedAt    time.Time
}

// College represents the organization profile an event can be hosted under
type College struct {
	ID       string
	Name     string
	ImageURL string
}

// EntryWithShift joins a roster entry with its shift and event context,
// the shape consumed by exports and schedule views
type EntryWithShift struct {
	Entry     RosterEntry
	Shift     Shift
	EventID   string
	EventName string
}
