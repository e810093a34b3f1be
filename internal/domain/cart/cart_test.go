package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	c := New("jane@example.com")

	leaf, err := c.AddItem("Aria", price("129.90"), 2)
	require.NoError(t, err)
	assert.Equal(t, "Aria", leaf.ItemName)
	assert.True(t, price("259.80").Equal(c.Total()))

	_, err = c.AddItem("Bodo", price("10.00"), 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 1, c.Root().Len())
}

func TestCart_Remove(t *testing.T) {
	c := New("jane@example.com")
	leaf, err := c.AddItem("Aria", price("100.00"), 1)
	require.NoError(t, err)

	assert.True(t, c.Remove(leaf))
	assert.False(t, c.Remove(leaf), "stale reference is a no-op")
	assert.True(t, c.Total().IsZero())
}

func TestCart_ApplyDiscount(t *testing.T) {
	c := New("jane@example.com")
	a, err := c.AddItem("Aria", price("100.00"), 1)
	require.NoError(t, err)
	b, err := c.AddItem("Bodo", price("200.00"), 1)
	require.NoError(t, err)

	// Targeted: only the chosen node changes.
	require.NoError(t, c.ApplyDiscount(50, a))
	assert.True(t, price("50.00").Equal(a.Effective))
	assert.True(t, price("200.00").Equal(b.Effective))

	// Untargeted: the whole tree. The leaf discounted above resets from
	// its unit price, so both land on 25% off.
	require.NoError(t, c.ApplyDiscount(25, nil))
	assert.True(t, price("75.00").Equal(a.Effective))
	assert.True(t, price("150.00").Equal(b.Effective))
}

func TestCart_Render(t *testing.T) {
	c := New("jane@example.com")
	assert.Equal(t, `Cart "jane@example.com" is empty`, c.Render())

	_, err := c.AddItem("Aria", price("129.90"), 2)
	require.NoError(t, err)

	bundle := NewGroup("living room")
	bundle.Add(NewLeaf("Fjord", price("899.00"), 1))
	c.Add(bundle)

	want := "Cart \"jane@example.com\":\n" +
		"  - Aria: 259.80\n" +
		"  - living room: 899.00\n" +
		"Total: 1158.80"
	assert.Equal(t, want, c.Render())
}
