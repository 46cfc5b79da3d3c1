package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/internal/config"
	"github.com/volunteerhq/rosterd/pkg/db"
)

// stubStore implements the store interfaces the exercised routes touch
type stubStore struct {
	db.EventStore
	db.SwapStore
	db.StatsStore

	shifts     map[string]db.Shift
	entries    map[string]db.RosterEntry
	volunteers map[string]db.Volunteer

	insertVolunteerErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		shifts:     make(map[string]db.Shift),
		entries:    make(map[string]db.RosterEntry),
		volunteers: make(map[string]db.Volunteer),
	}
}

func (s *stubStore) GetShift(ctx context.Context, id string) (*db.Shift, error) {
	sh, ok := s.shifts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &sh, nil
}

func (s *stubStore) GetShiftsByEvent(ctx context.Context, eventID string) ([]db.Shift, error) {
	var shifts []db.Shift
	for _, sh := range s.shifts {
		if sh.EventID == eventID {
			shifts = append(shifts, sh)
		}
	}
	return shifts, nil
}

func (s *stubStore) GetEntry(ctx context.Context, id string) (*db.RosterEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &e, nil
}

func (s *stubStore) GetActiveEntry(ctx context.Context, volunteerID, shiftID string) (*db.RosterEntry, error) {
	for _, e := range s.entries {
		if e.VolunteerID == volunteerID && e.ShiftID == shiftID {
			entry := e
			return &entry, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) GetEntriesByVolunteer(ctx context.Context, volunteerID string) ([]db.EntryWithShift, error) {
	return nil, nil
}

func (s *stubStore) GetEntriesByEvent(ctx context.Context, eventID string) ([]db.EntryWithShift, error) {
	return nil, nil
}

func (s *stubStore) InsertEntry(ctx context.Context, entry *db.RosterEntry, enforceCapacity bool) error {
	sh := s.shifts[entry.ShiftID]
	sh.FilledCount++
	s.shifts[entry.ShiftID] = sh
	s.entries[entry.ID] = *entry
	return nil
}

func (s *stubStore) MoveEntry(ctx context.Context, entryID, newShiftID string) error { return nil }

func (s *stubStore) DeleteEntry(ctx context.Context, entryID string) error {
	if _, ok := s.entries[entryID]; !ok {
		return db.ErrNotFound
	}
	delete(s.entries, entryID)
	return nil
}

func (s *stubStore) SetEntryStatus(ctx context.Context, entryID, status string) error { return nil }

func (s *stubStore) TransferEntry(ctx context.Context, entryID, newVolunteerID, requestID, requestStatus string, resolvedAt time.Time) error {
	return nil
}

func (s *stubStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	v, ok := s.volunteers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (s *stubStore) GetVolunteerByEmail(ctx context.Context, email string) (*db.Volunteer, error) {
	for _, v := range s.volunteers {
		if v.Email == email {
			volunteer := v
			return &volunteer, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	if s.insertVolunteerErr != nil {
		return s.insertVolunteerErr
	}
	for _, v := range s.volunteers {
		if v.Email == volunteer.Email {
			return db.ErrEmailTaken
		}
	}
	s.volunteers[volunteer.ID] = *volunteer
	return nil
}

func (s *stubStore) AddCompletedHours(ctx context.Context, volunteerID string, hours float64) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *stubStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := newStubStore()
	cfg := &config.Config{
		ListenAddr: ":0",
		JWTSecret:  "test-secret",
	}
	server := NewServer(cfg, zap.NewNop(), Stores{
		Shifts:     stub,
		Roster:     stub,
		Volunteers: stub,
	}, nil, nil)

	return server, stub, server.Router()
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	_, _, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/roster", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsGarbageToken(t *testing.T) {
	_, _, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/roster", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	_, _, router := newTestServer(t)

	body := `{"name":"Alice","email":"alice@example.org","password":"hunter2hunter2"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"alice@example.org","password":"hunter2hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// Wrong password is rejected
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"alice@example.org","password":"wrong-password"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	_, stub, router := newTestServer(t)

	signup := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := `{"name":"Alice","email":"alice@example.org","password":"hunter2hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusCreated, signup().Code)
	assert.Equal(t, http.StatusConflict, signup().Code)

	// A store outage is not reported as a duplicate account
	stub.insertVolunteerErr = assert.AnError
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(`{"name":"Bert","email":"bert@example.org","password":"hunter2hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJoinEndpoint(t *testing.T) {
	server, stub, router := newTestServer(t)

	start := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	stub.shifts["shift-1"] = db.Shift{
		ID: "shift-1", EventID: "event-1", Role: "greeter",
		Start: start, End: start.Add(4 * time.Hour), RequiredCount: 2,
	}

	token, err := server.GenerateToken("vol-a")
	require.NoError(t, err)

	join := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events/event-1/join", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w
	}

	w := join()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, stub.shifts["shift-1"].FilledCount)

	// Duplicate join surfaces the typed business failure as a conflict
	w = join()
	assert.Equal(t, http.StatusConflict, w.Code)
}
