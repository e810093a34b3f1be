// Package cart implements the composite shopping cart: leaf entries holding a
// priced quantity of one catalog item, and named groups bundling children.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	ErrInvalidDiscount = errors.New("discount percentage must be between 0 and 100")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Node is one component of a cart tree: either a *Leaf or a *Group.
type Node interface {
	// Label names the node: the referenced item for leaves, the bundle
	// name for groups.
	Label() string
	// Price returns the node's current total.
	Price() decimal.Decimal
	// ApplyDiscount propagates a percentage discount to all held prices.
	// Percentages outside [0, 100] fail with ErrInvalidDiscount and
	// mutate nothing.
	ApplyDiscount(percentage float64) error
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func discountFactor(percentage float64) decimal.Decimal {
	return one.Sub(decimal.NewFromFloat(percentage).Div(hundred))
}

// Leaf is a concrete purchasable quantity of one catalog item. ItemName is
// the join key back to the catalog: an item id in decimal form, or the item's
// exact name. UnitPrice is frozen at creation; Effective is the per-unit
// price after the most recent discount.
type Leaf struct {
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	Effective decimal.Decimal
}

// NewLeaf creates a leaf entry with its effective price equal to the unit price.
func NewLeaf(itemName string, unitPrice decimal.Decimal, quantity int) *Leaf {
	return &Leaf{
		ItemName:  itemName,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Effective: unitPrice,
	}
}

// Label returns the name of the referenced catalog item.
func (l *Leaf) Label() string { return l.ItemName }

// Price returns effective price times quantity.
func (l *Leaf) Price() decimal.Decimal {
	return l.Effective.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ApplyDiscount recomputes the effective price from the frozen unit price.
// Repeated calls therefore replace the discount instead of stacking:
// two 50% discounts on a 200 leaf both land on 100, not 50.
func (l *Leaf) ApplyDiscount(percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return errors.Wrapf(ErrInvalidDiscount, "got %v", percentage)
	}
	l.Effective = l.UnitPrice.Mul(discountFactor(percentage))
	return nil
}

// Group is a named bundle of child nodes. Insertion order is kept for
// rendering; it has no effect on totals.
type Group struct {
	Name     string
	children []Node
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// Label returns the bundle name.
func (g *Group) Label() string { return g.Name }

// Add appends a child node.
func (g *Group) Add(child Node) {
	g.children = append(g.children, child)
}

// Remove deletes the first child that is identical (same node) to child and
// reports whether one was found. Removing a node that is not present is a
// benign no-op: callers route potentially stale references here.
func (g *Group) Remove(child Node) bool {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns a copy of the child list in insertion order.
func (g *Group) Children() []Node {
	return append([]Node(nil), g.children...)
}

// Len returns the number of direct children.
func (g *Group) Len() int { return len(g.children) }

// Price returns the sum of the children's prices. Group totals are
// tax-exclusive: tax is applied per catalog item before items enter the
// cart, never again at the group level.
func (g *Group) Price() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range g.children {
		sum = sum.Add(c.Price())
	}
	return sum
}

// ApplyDiscount propagates the discount to every child. The percentage is
// validated up front so an out-of-range value mutates no part of the subtree.
func (g *Group) ApplyDiscount(percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return errors.Wrapf(ErrInvalidDiscount, "got %v", percentage)
	}
	for _, c := range g.children {
		if err := c.ApplyDiscount(percentage); err != nil {
			return err
		}
	}
	return nil
}
