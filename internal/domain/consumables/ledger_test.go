package consumables

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/errs"
)

func newTestLedger(t *testing.T) (*Ledger, *InMemory, *Item) {
	t.Helper()
	store := NewInMemoryStore()
	item := store.AddItem(Item{Name: "Toner", SKU: "TON-01", Unit: "unit", MinStock: 2})
	return NewLedger(store, nil), store, item
}

func TestRecordRejectsNonPositiveQuantity(t *testing.T) {
	ledger, _, item := newTestLedger(t)

	_, err := ledger.Record(context.Background(), MovementParams{
		ItemID: item.ID, Type: MoveIn, Quantity: 0, Reason: "Initial stock",
	})
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "quantity")
}

func TestOutCannotExceedStock(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 5, Reason: "Initial stock"})
	require.NoError(t, err)

	_, err = ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 8, Reason: "Usage"})
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot egress more than current stock.", fe["quantity"])

	// The rejected movement must not have been appended.
	stock, err := ledger.CurrentStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestOutDrainsStockToZero(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 5, Reason: "Initial stock"})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 5, Reason: "Usage"})
	require.NoError(t, err)

	stock, err := ledger.CurrentStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

func TestAdjustmentAddsAsStored(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 3, Reason: "Initial stock"})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveAdjustment, Quantity: 2, Reason: "Inventory count"})
	require.NoError(t, err)

	stock, err := ledger.CurrentStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestLowStock(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	low, err := ledger.LowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, low, "empty stock is at or below min_stock=2")

	_, err = ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 10, Reason: "Restock"})
	require.NoError(t, err)

	low, err = ledger.LowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, low)
}

func TestAmendOutExcludesItsOwnPriorQuantity(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 5, Reason: "Initial stock"})
	require.NoError(t, err)
	out, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 4, Reason: "Usage"})
	require.NoError(t, err)

	// Stock is 1. Raising the same OUT to 5 is fine: its own 4 come back first.
	amended, err := ledger.Amend(ctx, out.ID, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 5, Reason: "Usage corrected"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), amended.Quantity)

	stock, err := ledger.CurrentStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)

	// 6 would overdraw even with the self-exclusion.
	_, err = ledger.Amend(ctx, out.ID, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 6, Reason: "Usage corrected"})
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "quantity")
}

func TestRecordOnUnknownItem(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.Record(context.Background(), MovementParams{ItemID: 999, Type: MoveIn, Quantity: 1, Reason: "x"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestConcurrentOutsNeverOverdraw(t *testing.T) {
	ledger, _, item := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveIn, Quantity: 10, Reason: "Initial stock"})
	require.NoError(t, err)

	// 20 concurrent egresses of 1 against a stock of 10: exactly 10 commit.
	const attempts = 20
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = ledger.Record(ctx, MovementParams{ItemID: item.ID, Type: MoveOut, Quantity: 1, Reason: "Usage"})
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			_, isFieldErr := errs.AsFieldErrors(err)
			require.True(t, isFieldErr)
			rejected++
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, rejected)

	stock, err := ledger.CurrentStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}
