package cart

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Cart owns one root group and is the unit a checkout operates on. One cart
// exists per user session; the boundary layer keeps them in a per-user store.
// A cart exclusively owns its tree: nodes removed from it are gone.
type Cart struct {
	root *Group
}

// New creates an empty cart labelled with the given name, typically the
// owning user's identifier.
func New(name string) *Cart {
	return &Cart{root: NewGroup(name)}
}

// Root exposes the root group for tree walks.
func (c *Cart) Root() *Group { return c.root }

// AddItem creates a leaf entry for the named item and adds it to the root.
// The unit price is frozen at this moment.
func (c *Cart) AddItem(itemName string, unitPrice decimal.Decimal, quantity int) (*Leaf, error) {
	if quantity <= 0 {
		return nil, errors.Wrapf(ErrInvalidQuantity, "item %q: got %d", itemName, quantity)
	}
	leaf := NewLeaf(itemName, unitPrice, quantity)
	c.root.Add(leaf)
	return leaf, nil
}

// Add appends a prepared node (usually a bundle group) to the root.
func (c *Cart) Add(n Node) {
	c.root.Add(n)
}

// Remove deletes the first identical node from the root and reports whether
// one was found. Absent nodes are a no-op.
func (c *Cart) Remove(n Node) bool {
	return c.root.Remove(n)
}

// Total returns the cart's current total price.
func (c *Cart) Total() decimal.Decimal {
	return c.root.Price()
}

// ApplyDiscount discounts the target node, or the whole tree when target is nil.
func (c *Cart) ApplyDiscount(percentage float64, target Node) error {
	if target == nil {
		target = c.root
	}
	return target.ApplyDiscount(percentage)
}

// Render produces the human-readable cart summary: a header, one line per
// direct child with its price, and a trailing total.
func (c *Cart) Render() string {
	if c.root.Len() == 0 {
		return fmt.Sprintf("Cart %q is empty", c.root.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cart %q:\n", c.root.Name)
	for _, child := range c.root.Children() {
		fmt.Fprintf(&b, "  - %s: %s\n", child.Label(), child.Price().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s", c.Total().StringFixed(2))
	return b.String()
}
