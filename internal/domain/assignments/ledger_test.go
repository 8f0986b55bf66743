package assignments

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/errs"
)

type fakeDirectory map[int64]string

func (d fakeDirectory) DisplayName(_ context.Context, id int64) (string, error) {
	return d[id], nil
}

func ptr(v int64) *int64 { return &v }

func newTestLedger() (*Ledger, *InMemory) {
	store := NewInMemory()
	dir := fakeDirectory{1: "Diana Gamarra", 2: "Iris Zevallos"}
	return NewLedger(store, dir, nil), store
}

func TestAssignCreatesCurrentAssignmentAndEvent(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	a, err := ledger.Assign(ctx, Params{AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(1)})
	require.NoError(t, err)
	assert.True(t, a.IsCurrent)
	require.NotNil(t, a.AssignedEmployeeID)
	assert.Equal(t, int64(1), *a.AssignedEmployeeID)

	history, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsCurrent)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventAssigned, events[0].Type)
	assert.Equal(t, "Assigned to Diana Gamarra", events[0].Description)
}

func TestAssignWithoutEmployee(t *testing.T) {
	ledger, store := newTestLedger()

	a, err := ledger.Assign(context.Background(), Params{AssetID: 10, ReasonID: 1})
	require.NoError(t, err)
	assert.Nil(t, a.AssignedEmployeeID)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Assignment set without assigned employee", events[0].Description)
}

func TestSecondAssignConflicts(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	_, err := ledger.Assign(ctx, Params{AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(1)})
	require.NoError(t, err)

	_, err = ledger.Assign(ctx, Params{AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(2)})
	require.ErrorIs(t, err, errs.ErrConflict)

	// The failed call must not leave partial rows or events behind.
	history, err := store.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Len(t, store.Events(), 1)
}

func TestReassignClosesPreviousAndCreatesNewCurrent(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	_, err := ledger.Reassign(ctx, Params{AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(1)})
	require.NoError(t, err)
	second, err := ledger.Reassign(ctx, Params{AssetID: 10, ReasonID: 2, AssignedEmployeeID: ptr(2)})
	require.NoError(t, err)

	require.NotNil(t, second.AssignedEmployeeID)
	assert.Equal(t, int64(2), *second.AssignedEmployeeID)

	history, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	var current []Assignment
	for _, a := range history {
		if a.IsCurrent {
			current = append(current, a)
		}
	}
	require.Len(t, current, 1)
	assert.Equal(t, second.ID, current[0].ID)

	// The closed row keeps its history and records when custody ended.
	first := history[0]
	assert.False(t, first.IsCurrent)
	require.NotNil(t, first.EndAt)

	events := store.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.EventReassigned, events[0].Type)
	assert.Equal(t, "Reassigned: Unassigned -> Diana Gamarra", events[0].Description)
	assert.Equal(t, "Reassigned: Diana Gamarra -> Iris Zevallos", events[1].Description)
}

func TestReassignToNobodyEndsCustody(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	_, err := ledger.Assign(ctx, Params{AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(1)})
	require.NoError(t, err)

	ended, err := ledger.Reassign(ctx, Params{AssetID: 10, ReasonID: 1})
	require.NoError(t, err)
	assert.Nil(t, ended.AssignedEmployeeID)
	assert.True(t, ended.IsCurrent)

	events := store.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Reassigned: Diana Gamarra -> Unassigned", events[1].Description)
}

func TestCallerSuppliedNoteWins(t *testing.T) {
	ledger, store := newTestLedger()

	_, err := ledger.Assign(context.Background(), Params{
		AssetID: 10, ReasonID: 1, AssignedEmployeeID: ptr(1),
		Note: "Handed over at front desk",
	})
	require.NoError(t, err)
	assert.Equal(t, "Handed over at front desk", store.Events()[0].Description)
}

func TestConcurrentAssignExactlyOneWinner(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	const attempts = 16
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			emp := int64(i%2 + 1)
			_, results[i] = ledger.Assign(ctx, Params{AssetID: 42, ReasonID: 1, AssignedEmployeeID: &emp})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, errs.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)

	history, err := store.History(ctx, 42)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsCurrent)
}

func TestConcurrentReassignsKeepSingleCurrent(t *testing.T) {
	ledger, store := newTestLedger()
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			emp := int64(i%2 + 1)
			_, err := ledger.Reassign(ctx, Params{AssetID: 7, ReasonID: 1, AssignedEmployeeID: &emp})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := store.History(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, attempts)

	var current int
	for _, a := range history {
		if a.IsCurrent {
			current++
		} else {
			assert.NotNil(t, a.EndAt)
		}
	}
	assert.Equal(t, 1, current)
}
