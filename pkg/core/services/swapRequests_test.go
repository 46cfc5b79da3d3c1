package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

func seedSwapScenario(t *testing.T, mock *mockStore) *db.RosterEntry {
	t.Helper()
	eventID, _ := seedEventWithShifts(mock)
	mock.volunteers["vol-a"] = db.Volunteer{ID: "vol-a", Name: "Alice", Email: "alice@example.org"}
	mock.volunteers["vol-b"] = db.Volunteer{ID: "vol-b", Name: "Bert", Email: "bert@example.org"}

	entry, err := JoinShift(context.Background(), mock, mock, zap.NewNop(), "vol-a", eventID, false)
	require.NoError(t, err)
	return entry
}

func TestSwapRequest_AcceptTransfersOwnership(t *testing.T) {
	mock := newMockStore()
	notifier := &mockNotifier{}
	logger := zap.NewNop()
	ctx := context.Background()

	entry := seedSwapScenario(t, mock)
	require.Equal(t, 1, mock.shifts[entry.ShiftID].FilledCount)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, notifier, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SwapPending, request.Status)
	assert.Equal(t, []string{"bert@example.org"}, notifier.sent)

	resolved, err := RespondToSwapRequest(ctx, mock, mock, mock, notifier, logger, "vol-b", request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, db.SwapAccepted, resolved.Status)

	// Entry now belongs to the receiver and the request is resolved
	stored := mock.entries[entry.ID]
	assert.Equal(t, "vol-b", stored.VolunteerID)
	assert.Equal(t, db.SwapAccepted, mock.swaps[request.ID].Status)
	require.NotNil(t, mock.swaps[request.ID].ResolvedAt)

	// The sender no longer holds an active entry for the shift
	_, err = mock.GetActiveEntry(ctx, "vol-a", entry.ShiftID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Fill count unchanged by a transfer
	assert.Equal(t, 1, mock.shifts[entry.ShiftID].FilledCount)
}

func TestSwapRequest_DeclineLeavesOwnerUnchanged(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()

	entry := seedSwapScenario(t, mock)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	resolved, err := RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, false)
	require.NoError(t, err)
	assert.Equal(t, db.SwapDeclined, resolved.Status)

	assert.Equal(t, "vol-a", mock.entries[entry.ID].VolunteerID)

	// The sender may retry with a new request
	_, err = CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	assert.NoError(t, err)
}

func TestCreateSwapRequest_SenderMustOwnEntry(t *testing.T) {
	mock := newMockStore()
	entry := seedSwapScenario(t, mock)

	_, err := CreateSwapRequest(context.Background(), mock, mock, mock, nil, zap.NewNop(), "vol-b", "vol-a", entry.ID)
	assert.ErrorIs(t, err, db.ErrNotOwner)
}

func TestCreateSwapRequest_RejectsDuplicatePending(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()
	entry := seedSwapScenario(t, mock)

	_, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	_, err = CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	assert.ErrorIs(t, err, db.ErrDuplicateSwap)
}

func TestRespondToSwapRequest_OnlyReceiverMayRespond(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()
	entry := seedSwapScenario(t, mock)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", request.ID, true)
	assert.ErrorIs(t, err, db.ErrNotOwner)
}

func TestRespondToSwapRequest_ResolvedRequestIsTerminal(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()
	entry := seedSwapScenario(t, mock)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, false)
	require.NoError(t, err)

	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, true)
	assert.ErrorIs(t, err, db.ErrAlreadyResolved)
}

func TestRespondToSwapRequest_ReceiverAlreadyOnShift(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()

	// Both volunteers hold a seat on the same two-seat shift
	entry := seedSwapScenario(t, mock)
	receiverEntry, err := JoinShift(ctx, mock, mock, logger, "vol-b", "event-1", false)
	require.NoError(t, err)
	require.Equal(t, entry.ShiftID, receiverEntry.ShiftID)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, true)
	assert.ErrorIs(t, err, db.ErrAlreadyJoined)

	// Nothing moved: the entry keeps its owner and the request stays
	// pending so the receiver can still decline
	assert.Equal(t, "vol-a", mock.entries[entry.ID].VolunteerID)
	assert.Equal(t, db.SwapPending, mock.swaps[request.ID].Status)

	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, false)
	assert.NoError(t, err)
}

func TestSwapRequest_NotificationFailureDoesNotFailRequest(t *testing.T) {
	mock := newMockStore()
	notifier := &mockNotifier{sendErr: assert.AnError}
	entry := seedSwapScenario(t, mock)

	request, err := CreateSwapRequest(context.Background(), mock, mock, mock, notifier, zap.NewNop(), "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SwapPending, request.Status)
}

func TestCreateSwapRequest_StoreFailureIsSurfaced(t *testing.T) {
	mock := newMockStore()
	notifier := &mockNotifier{}
	entry := seedSwapScenario(t, mock)
	mock.insertSwapErr = assert.AnError

	_, err := CreateSwapRequest(context.Background(), mock, mock, mock, notifier, zap.NewNop(), "vol-a", "vol-b", entry.ID)
	require.Error(t, err)

	// Nothing stored and nobody notified
	assert.Empty(t, mock.swaps)
	assert.Empty(t, notifier.sent)
}

func TestRespondToSwapRequest_TransferFailureKeepsRequestPending(t *testing.T) {
	mock := newMockStore()
	logger := zap.NewNop()
	ctx := context.Background()
	entry := seedSwapScenario(t, mock)

	request, err := CreateSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-a", "vol-b", entry.ID)
	require.NoError(t, err)

	mock.transferErr = assert.AnError
	_, err = RespondToSwapRequest(ctx, mock, mock, mock, nil, logger, "vol-b", request.ID, true)
	require.Error(t, err)

	// The failed transfer changed nothing
	assert.Equal(t, "vol-a", mock.entries[entry.ID].VolunteerID)
	assert.Equal(t, db.SwapPending, mock.swaps[request.ID].Status)
}
