package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(day int, supplier string) entities.DayRecord {
	return entities.DayRecord{
		Day:           entities.Day(day),
		Inventory:     entities.Quantity(100 - day),
		Demand:        10,
		Fulfilled:     10,
		OrderQuantity: 0,
		SupplierName:  supplier,
		HoldingCost:   decimal.RequireFromString("45.5"),
		StockoutCost:  decimal.Zero,
		SupplierCost:  decimal.Zero,
		Revenue:       decimal.NewFromInt(500),
		Profit:        decimal.RequireFromString("454.5"),
		ROI:           decimal.RequireFromString("998.9010989"),
	}
}

func TestStore_SinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, "run-1", "fixed"))
	sink := store.Sink("run-1")
	for day := 0; day < 3; day++ {
		require.NoError(t, sink.Append(ctx, record(day, entities.NoSupplier)))
	}
	require.NoError(t, sink.Close())

	records, err := store.GetDayRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for day, got := range records {
		want := record(day, entities.NoSupplier)
		assert.Equal(t, want.Day, got.Day)
		assert.Equal(t, want.Inventory, got.Inventory)
		assert.Equal(t, want.SupplierName, got.SupplierName)
		assert.True(t, want.HoldingCost.Equal(got.HoldingCost))
		assert.True(t, want.ROI.Equal(got.ROI))
		assert.Equal(t, want.Row(), got.Row())
	}
}

func TestStore_RejectsDuplicateDayAndUnknownRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, "run-1", "adaptive"))
	sink := store.Sink("run-1")
	require.NoError(t, sink.Append(ctx, record(0, "Normal")))
	assert.Error(t, sink.Append(ctx, record(0, "Normal")))

	assert.ErrorIs(t, store.Sink("missing").Append(ctx, record(0, "Normal")), ErrRunNotFound)
	assert.ErrorIs(t, store.CompleteRun(ctx, "missing", entities.RunSummary{}), ErrRunNotFound)
}

func TestStore_RunsKeepSeparateRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, "a", "fixed"))
	require.NoError(t, store.CreateRun(ctx, "b", "learned"))
	require.NoError(t, store.Sink("a").Append(ctx, record(0, "Normal")))
	require.NoError(t, store.Sink("b").Append(ctx, record(0, "Premium")))
	require.NoError(t, store.Sink("b").Append(ctx, record(1, "None")))

	a, err := store.GetDayRecords(ctx, "a")
	require.NoError(t, err)
	b, err := store.GetDayRecords(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Len(t, b, 2)
	assert.Equal(t, "Premium", b[0].SupplierName)
}

func TestStore_CompleteRunStoresSummary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, "run-1", "learned"))
	require.NoError(t, store.CreateRun(ctx, "run-2", "fixed"))

	summary := entities.RunSummary{
		Days:          100,
		StockoutUnits: 12,
		SupplierUsage: map[entities.SupplierName]int{"Premium": 4},
		Profit:        decimal.RequireFromString("1234.56"),
	}
	require.NoError(t, store.CompleteRun(ctx, "run-1", summary))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "learned", runs[0].Policy)
	require.NotNil(t, runs[0].FinishedAt)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 12, int(runs[0].Summary.StockoutUnits))
	assert.Equal(t, 4, runs[0].Summary.SupplierUsage["Premium"])
	assert.True(t, summary.Profit.Equal(runs[0].Summary.Profit))

	assert.Nil(t, runs[1].FinishedAt)
	assert.Nil(t, runs[1].Summary)
}
