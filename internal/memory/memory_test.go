package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranito1909/furniture-store/internal/domain/order"
	"github.com/ranito1909/furniture-store/internal/domain/user"
)

func TestOrderRepository_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	for i := 1; i <= 3; i++ {
		o := &order.Order{
			UserEmail: "jane@example.com",
			Total:     decimal.NewFromInt(int64(i * 100)),
			Status:    order.StatusPending,
		}
		require.NoError(t, repo.Create(ctx, o))
		assert.EqualValues(t, i, o.ID)
	}
}

func TestOrderRepository_GetAndByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	a := &order.Order{UserEmail: "jane@example.com", Status: order.StatusPending}
	b := &order.Order{UserEmail: "john@example.com", Status: order.StatusPending}
	c := &order.Order{UserEmail: "jane@example.com", Status: order.StatusPending}
	for _, o := range []*order.Order{a, b, c} {
		require.NoError(t, repo.Create(ctx, o))
	}

	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = repo.Get(ctx, 99)
	require.ErrorIs(t, err, order.ErrNotFound)

	janes, err := repo.ByUser(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, janes, 2)
	assert.Same(t, a, janes[0])
	assert.Same(t, c, janes[1])
}

func TestOrderRepository_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	o := &order.Order{UserEmail: "jane@example.com", Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))

	o.SetStatus(order.StatusShipped)

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, got.Status)
}

func TestUserRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewUserRegistry()

	_, err := reg.ByEmail(ctx, "jane@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)

	u := user.New("jane@example.com", "Jane Doe")
	require.NoError(t, reg.Save(ctx, u))

	got, err := reg.ByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Same(t, u, got)

	require.NoError(t, reg.Delete(ctx, "jane@example.com"))
	require.ErrorIs(t, reg.Delete(ctx, "jane@example.com"), user.ErrNotFound)

	_, err = reg.ByEmail(ctx, "jane@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestCartStore(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()

	c := store.ForUser(ctx, "jane@example.com")
	require.NotNil(t, c)
	assert.Same(t, c, store.ForUser(ctx, "jane@example.com"), "same cart per user")

	_, err := c.AddItem("Aria", decimal.RequireFromString("100.00"), 1)
	require.NoError(t, err)

	store.Drop(ctx, "jane@example.com")
	fresh := store.ForUser(ctx, "jane@example.com")
	assert.NotSame(t, c, fresh)
	assert.True(t, fresh.Total().IsZero())
}
