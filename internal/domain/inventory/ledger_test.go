package inventory

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ranito1909/furniture-store/internal/domain/catalog"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newChair(name string, p string) *catalog.Item {
	return catalog.NewChair(name, "a chair", price(p), []float64{45, 45, 90}, "foam")
}

func TestAddItem_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	a := newChair("Aria", "100.00")
	b := newChair("Bodo", "150.00")

	require.NoError(t, l.AddItem(ctx, a, 3))
	require.NoError(t, l.AddItem(ctx, b, 1))

	assert.EqualValues(t, 1, a.ID)
	assert.EqualValues(t, 2, b.ID)
	assert.Equal(t, 3, l.Quantity(ctx, a))
	assert.Equal(t, 1, l.Quantity(ctx, b))
}

func TestAddItem_IncrementsExisting(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")

	require.NoError(t, l.AddItem(ctx, a, 2))
	require.NoError(t, l.AddItem(ctx, a, 5))

	assert.Equal(t, 7, l.Quantity(ctx, a))
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")

	require.ErrorIs(t, l.AddItem(ctx, a, 0), ErrInvalidQuantity)
	require.ErrorIs(t, l.AddItem(ctx, a, -3), ErrInvalidQuantity)
	assert.Equal(t, 0, l.Quantity(ctx, a))
}

func TestAddItem_EqualFieldsAreDistinctEntries(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	a := newChair("Aria", "100.00")
	b := newChair("Aria", "100.00")

	require.NoError(t, l.AddItem(ctx, a, 2))
	require.NoError(t, l.AddItem(ctx, b, 9))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, l.Quantity(ctx, a))
	assert.Equal(t, 9, l.Quantity(ctx, b))
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	require.NoError(t, l.AddItem(ctx, a, 5))

	require.NoError(t, l.RemoveItem(ctx, a, 2))
	assert.Equal(t, 3, l.Quantity(ctx, a))

	// More than on hand fails without mutating.
	require.ErrorIs(t, l.RemoveItem(ctx, a, 4), ErrInsufficientStock)
	assert.Equal(t, 3, l.Quantity(ctx, a))

	// Draining to zero removes the entry entirely.
	require.NoError(t, l.RemoveItem(ctx, a, 3))
	assert.Equal(t, 0, l.Quantity(ctx, a))
	assert.Empty(t, l.Search(ctx, Filter{Name: "aria"}))

	require.ErrorIs(t, l.RemoveItem(ctx, a, 1), ErrNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	b := newChair("Bodo", "150.00")
	require.NoError(t, l.AddItem(ctx, a, 5))

	require.ErrorIs(t, l.UpdateQuantity(ctx, b, 3), ErrNotFound)

	require.NoError(t, l.UpdateQuantity(ctx, a, 12))
	assert.Equal(t, 12, l.Quantity(ctx, a))

	// Zero or negative deletes the entry.
	require.NoError(t, l.UpdateQuantity(ctx, a, 0))
	assert.Equal(t, 0, l.Quantity(ctx, a))
	assert.Empty(t, l.Entries(ctx))
}

func TestNextID_SeededFromRestoredEntries(t *testing.T) {
	a := newChair("Aria", "100.00")
	a.ID = 41
	l := NewLedger(Entry{Item: a, Quantity: 2})

	assert.EqualValues(t, 42, l.NextID())
	assert.EqualValues(t, 43, l.NextID())
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	chair := newChair("Aria Lounge", "100.00")
	table := catalog.NewTable("Lund", "coffee table", price("250.00"), []float64{120, 60, 45}, "steel")
	lamp := catalog.NewLamp("Aria Light", "floor lamp", price("80.00"), []float64{30, 30, 160}, "LED")

	require.NoError(t, l.AddItem(ctx, chair, 1))
	require.NoError(t, l.AddItem(ctx, table, 1))
	require.NoError(t, l.AddItem(ctx, lamp, 1))

	t.Run("no filters returns everything", func(t *testing.T) {
		assert.Len(t, l.Search(ctx, Filter{}), 3)
	})

	t.Run("name is case-insensitive substring", func(t *testing.T) {
		got := l.Search(ctx, Filter{Name: "aria"})
		require.Len(t, got, 2)
		assert.Equal(t, "Aria Lounge", got[0].Name)
		assert.Equal(t, "Aria Light", got[1].Name)
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		got := l.Search(ctx, Filter{MinPrice: pricePtr("80.00"), MaxPrice: pricePtr("100.00")})
		require.Len(t, got, 2)
	})

	t.Run("filters are AND-combined", func(t *testing.T) {
		got := l.Search(ctx, Filter{Name: "aria", Kind: catalog.KindLamp})
		require.Len(t, got, 1)
		assert.Equal(t, "Aria Light", got[0].Name)
	})

	t.Run("kind only", func(t *testing.T) {
		got := l.Search(ctx, Filter{Kind: catalog.KindTable})
		require.Len(t, got, 1)
		assert.Equal(t, "Lund", got[0].Name)
	})
}

func TestItemLookups(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	require.NoError(t, l.AddItem(ctx, a, 1))

	got, err := l.ItemByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = l.ItemByName(ctx, "Aria")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = l.ItemByID(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = l.ItemByName(ctx, "aria") // exact match only
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeduct_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	b := newChair("Bodo", "150.00")
	require.NoError(t, l.AddItem(ctx, a, 10))
	require.NoError(t, l.AddItem(ctx, b, 1))

	err := l.Deduct(ctx, []Deduction{
		{Item: a, Quantity: 4},
		{Item: b, Quantity: 2}, // only 1 on hand
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, l.Quantity(ctx, a), "failed deduction must not touch other lines")
	assert.Equal(t, 1, l.Quantity(ctx, b))
}

func TestDeduct_AggregatesDuplicateLines(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	require.NoError(t, l.AddItem(ctx, a, 5))

	err := l.Deduct(ctx, []Deduction{
		{Item: a, Quantity: 3},
		{Item: a, Quantity: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, l.Quantity(ctx, a))

	require.NoError(t, l.Deduct(ctx, []Deduction{
		{Item: a, Quantity: 3},
		{Item: a, Quantity: 2},
	}))
	assert.Equal(t, 0, l.Quantity(ctx, a))
}

func TestDeduct_ConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	a := newChair("Aria", "100.00")
	require.NoError(t, l.AddItem(ctx, a, 10))

	var succeeded atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for range 25 {
		g.Go(func() error {
			switch err := l.Deduct(gctx, []Deduction{{Item: a, Quantity: 1}}); {
			case err == nil:
				succeeded.Add(1)
				return nil
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrInsufficientStock):
				return nil // expected for the losers
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 10, succeeded.Load())
	assert.Equal(t, 0, l.Quantity(ctx, a))
}
