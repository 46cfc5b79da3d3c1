package services

import (
	"context"
	"sort"
	"time"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// mockStore is an in-memory test double for the store interfaces. Its
// multi-step writes mimic the transactional behavior of the Postgres
// implementation: filled counts move together with entry rows, and the
// one-entry-per-volunteer-per-shift constraint is enforced on every
// write path the way the unique index does.
type mockStore struct {
	events     map[string]db.Event
	colleges   map[string]db.College
	shifts     map[string]db.Shift
	entries    map[string]db.RosterEntry
	swaps      map[string]db.SwapRequest
	volunteers map[string]db.Volunteer

	insertEventErr error
	insertEntryErr error
	insertSwapErr  error
	transferErr    error
}

func newMockStore() *mockStore {
	return &mockStore{
		events:     make(map[string]db.Event),
		colleges:   make(map[string]db.College),
		shifts:     make(map[string]db.Shift),
		entries:    make(map[string]db.RosterEntry),
		swaps:      make(map[string]db.SwapRequest),
		volunteers: make(map[string]db.Volunteer),
	}
}

// EventStore

func (m *mockStore) GetEvent(ctx context.Context, id string) (*db.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &e, nil
}

func (m *mockStore) GetEvents(ctx context.Context, status string) ([]db.Event, error) {
	var events []db.Event
	for _, e := range m.events {
		if status == "" || e.Status == status {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *mockStore) InsertEvent(ctx context.Context, event *db.Event, shifts []db.Shift) error {
	if m.insertEventErr != nil {
		return m.insertEventErr
	}
	m.events[event.ID] = *event
	for _, s := range shifts {
		m.shifts[s.ID] = s
	}
	return nil
}

func (m *mockStore) SetEventStatus(ctx context.Context, id, status string) error {
	e, ok := m.events[id]
	if !ok {
		return db.ErrNotFound
	}
	e.Status = status
	m.events[id] = e
	return nil
}

func (m *mockStore) InsertCollegeEvent(ctx context.Context, college *db.College, event *db.Event, shifts []db.Shift) error {
	m.colleges[college.ID] = *college
	m.events[event.ID] = *event
	for _, s := range shifts {
		m.shifts[s.ID] = s
	}
	return nil
}

// ShiftStore

func (m *mockStore) GetShift(ctx context.Context, id string) (*db.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &s, nil
}

func (m *mockStore) GetShiftsByEvent(ctx context.Context, eventID string) ([]db.Shift, error) {
	var shifts []db.Shift
	for _, s := range m.shifts {
		if s.EventID == eventID {
			shifts = append(shifts, s)
		}
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })
	return shifts, nil
}

// RosterStore

func (m *mockStore) GetEntry(ctx context.Context, id string) (*db.RosterEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &e, nil
}

func (m *mockStore) GetActiveEntry(ctx context.Context, volunteerID, shiftID string) (*db.RosterEntry, error) {
	for _, e := range m.entries {
		if e.VolunteerID == volunteerID && e.ShiftID == shiftID {
			entry := e
			return &entry, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) entriesWithShift(filter func(db.RosterEntry, db.Shift) bool) []db.EntryWithShift {
	var results []db.EntryWithShift
	for _, e := range m.entries {
		s := m.shifts[e.ShiftID]
		if !filter(e, s) {
			continue
		}
		ev := m.events[s.EventID]
		results = append(results, db.EntryWithShift{
			Entry:     e,
			Shift:     s,
			EventID:   s.EventID,
			EventName: ev.Name,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Shift.Start.Before(results[j].Shift.Start) })
	return results
}

func (m *mockStore) GetEntriesByVolunteer(ctx context.Context, volunteerID string) ([]db.EntryWithShift, error) {
	return m.entriesWithShift(func(e db.RosterEntry, s db.Shift) bool {
		return e.VolunteerID == volunteerID
	}), nil
}

func (m *mockStore) GetEntriesByEvent(ctx context.Context, eventID string) ([]db.EntryWithShift, error) {
	return m.entriesWithShift(func(e db.RosterEntry, s db.Shift) bool {
		return s.EventID == eventID
	}), nil
}

// holdsEntry reports whether the volunteer already has an entry on the
// shift, optionally ignoring one entry id
func (m *mockStore) holdsEntry(volunteerID, shiftID, ignoreEntryID string) bool {
	for id, e := range m.entries {
		if id != ignoreEntryID && e.VolunteerID == volunteerID && e.ShiftID == shiftID {
			return true
		}
	}
	return false
}

func (m *mockStore) InsertEntry(ctx context.Context, entry *db.RosterEntry, enforceCapacity bool) error {
	if m.insertEntryErr != nil {
		return m.insertEntryErr
	}
	s, ok := m.shifts[entry.ShiftID]
	if !ok {
		return db.ErrNotFound
	}
	if enforceCapacity && s.FilledCount >= s.RequiredCount {
		return db.ErrShiftFull
	}
	if m.holdsEntry(entry.VolunteerID, entry.ShiftID, "") {
		return db.ErrAlreadyJoined
	}
	s.FilledCount++
	m.shifts[entry.ShiftID] = s
	m.entries[entry.ID] = *entry
	return nil
}

func (m *mockStore) MoveEntry(ctx context.Context, entryID, newShiftID string) error {
	e, ok := m.entries[entryID]
	if !ok {
		return db.ErrNotFound
	}
	if e.ShiftID == newShiftID {
		return nil
	}
	if m.holdsEntry(e.VolunteerID, newShiftID, entryID) {
		return db.ErrAlreadyJoined
	}
	old := m.shifts[e.ShiftID]
	old.FilledCount--
	m.shifts[e.ShiftID] = old

	next := m.shifts[newShiftID]
	next.FilledCount++
	m.shifts[newShiftID] = next

	e.ShiftID = newShiftID
	m.entries[entryID] = e
	return nil
}

func (m *mockStore) DeleteEntry(ctx context.Context, entryID string) error {
	e, ok := m.entries[entryID]
	if !ok {
		return db.ErrNotFound
	}
	s := m.shifts[e.ShiftID]
	s.FilledCount--
	m.shifts[e.ShiftID] = s
	delete(m.entries, entryID)
	return nil
}

func (m *mockStore) SetEntryStatus(ctx context.Context, entryID, status string) error {
	e, ok := m.entries[entryID]
	if !ok {
		return db.ErrNotFound
	}
	e.Status = status
	m.entries[entryID] = e
	return nil
}

func (m *mockStore) TransferEntry(ctx context.Context, entryID, newVolunteerID, requestID, requestStatus string, resolvedAt time.Time) error {
	if m.transferErr != nil {
		return m.transferErr
	}
	e, ok := m.entries[entryID]
	if !ok {
		return db.ErrNotFound
	}
	if m.holdsEntry(newVolunteerID, e.ShiftID, entryID) {
		return db.ErrAlreadyJoined
	}
	e.VolunteerID = newVolunteerID
	m.entries[entryID] = e

	r := m.swaps[requestID]
	r.Status = requestStatus
	r.ResolvedAt = &resolvedAt
	m.swaps[requestID] = r
	return nil
}

// SwapStore

func (m *mockStore) GetSwapRequest(ctx context.Context, id string) (*db.SwapRequest, error) {
	r, ok := m.swaps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (m *mockStore) GetPendingSwapForEntry(ctx context.Context, entryID string) (*db.SwapRequest, error) {
	for _, r := range m.swaps {
		if r.EntryID == entryID && r.Status == db.SwapPending {
			request := r
			return &request, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) GetSwapRequestsForVolunteer(ctx context.Context, volunteerID string) ([]db.SwapRequest, error) {
	var requests []db.SwapRequest
	for _, r := range m.swaps {
		if r.SenderID == volunteerID || r.ReceiverID == volunteerID {
			requests = append(requests, r)
		}
	}
	return requests, nil
}

func (m *mockStore) InsertSwapRequest(ctx context.Context, request *db.SwapRequest) error {
	if m.insertSwapErr != nil {
		return m.insertSwapErr
	}
	m.swaps[request.ID] = *request
	return nil
}

func (m *mockStore) SetSwapRequestStatus(ctx context.Context, id, status string, resolvedAt time.Time) error {
	r, ok := m.swaps[id]
	if !ok {
		return db.ErrNotFound
	}
	r.Status = status
	r.ResolvedAt = &resolvedAt
	m.swaps[id] = r
	return nil
}

// VolunteerStore

func (m *mockStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	v, ok := m.volunteers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (m *mockStore) GetVolunteerByEmail(ctx context.Context, email string) (*db.Volunteer, error) {
	for _, v := range m.volunteers {
		if v.Email == email {
			volunteer := v
			return &volunteer, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	for _, v := range m.volunteers {
		if v.Email == volunteer.Email {
			return db.ErrEmailTaken
		}
	}
	m.volunteers[volunteer.ID] = *volunteer
	return nil
}

func (m *mockStore) AddCompletedHours(ctx context.Context, volunteerID string, hours float64) error {
	v, ok := m.volunteers[volunteerID]
	if !ok {
		return db.ErrNotFound
	}
	v.TotalHours += hours
	v.EventCount++
	m.volunteers[volunteerID] = v
	return nil
}

// mockNotifier records sent emails
type mockNotifier struct {
	sent    []string
	sendErr error
}

func (m *mockNotifier) SendEmail(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}
