// Package catalog defines the stockable furniture items sold by the store.
package catalog

import (
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount is returned when a discount percentage lies outside [0, 100].
var ErrInvalidDiscount = errors.New("discount percentage must be between 0 and 100")

// Kind tags the furniture variant of an Item.
type Kind string

const (
	KindChair Kind = "chair"
	KindTable Kind = "table"
	KindSofa  Kind = "sofa"
	KindLamp  Kind = "lamp"
	KindShelf Kind = "shelf"
)

// Extra holds the single kind-specific attribute of an item. Which field is
// meaningful depends on Kind: Text carries a chair's cushion material, a
// table's frame material, or a lamp's light source; Num carries a sofa's
// seating capacity; Flag marks a wall-mounted shelf.
type Extra struct {
	Text string
	Num  int
	Flag bool
}

// Item is one stockable catalog product.
//
// Items are reference types: the inventory ledger tracks stock per *Item, so
// two items with identical fields are distinct inventory entries. ID is zero
// until the ledger assigns one on first insertion.
type Item struct {
	ID          int64
	Kind        Kind
	Name        string
	Description string
	Price       decimal.Decimal
	Dimensions  []float64
	Extra       Extra
}

// NewChair creates a chair with the given cushion material.
func NewChair(name, description string, price decimal.Decimal, dimensions []float64, cushionMaterial string) *Item {
	return newItem(KindChair, name, description, price, dimensions, Extra{Text: cushionMaterial})
}

// NewTable creates a table with the given frame material.
func NewTable(name, description string, price decimal.Decimal, dimensions []float64, frameMaterial string) *Item {
	return newItem(KindTable, name, description, price, dimensions, Extra{Text: frameMaterial})
}

// NewSofa creates a sofa with the given seating capacity.
func NewSofa(name, description string, price decimal.Decimal, dimensions []float64, capacity int) *Item {
	return newItem(KindSofa, name, description, price, dimensions, Extra{Num: capacity})
}

// NewLamp creates a lamp with the given light source.
func NewLamp(name, description string, price decimal.Decimal, dimensions []float64, lightSource string) *Item {
	return newItem(KindLamp, name, description, price, dimensions, Extra{Text: lightSource})
}

// NewShelf creates a shelf, wall-mounted or freestanding.
func NewShelf(name, description string, price decimal.Decimal, dimensions []float64, wallMounted bool) *Item {
	return newItem(KindShelf, name, description, price, dimensions, Extra{Flag: wallMounted})
}

func newItem(kind Kind, name, description string, price decimal.Decimal, dimensions []float64, extra Extra) *Item {
	return &Item{
		Kind:        kind,
		Name:        name,
		Description: description,
		Price:       price,
		Dimensions:  dimensions,
		Extra:       extra,
	}
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ApplyDiscount reduces the price by the given percentage. Percentages outside
// [0, 100] fail with ErrInvalidDiscount and leave the price untouched.
func (i *Item) ApplyDiscount(percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return errors.Wrapf(ErrInvalidDiscount, "got %v", percentage)
	}
	factor := one.Sub(decimal.NewFromFloat(percentage).Div(hundred))
	i.Price = i.Price.Mul(factor)
	return nil
}

// ApplyTax multiplies the price by (1 + rate), e.g. 0.17 for 17% VAT.
// The rate is deliberately unvalidated: a negative rate acts as a rebate
// multiplier, matching the long-standing behaviour callers rely on.
func (i *Item) ApplyTax(rate float64) {
	i.Price = i.Price.Mul(one.Add(decimal.NewFromFloat(rate)))
}

// String renders the item for listings and order summaries.
func (i *Item) String() string {
	s := fmt.Sprintf("%s (%s): %s ₪", i.Name, i.Description, i.Price.StringFixed(2))
	if label, value := i.extraAttr(); label != "" {
		s += ", " + label + ": " + value
	}
	return s
}

// extraAttr returns the display label and value of the kind-specific attribute.
func (i *Item) extraAttr() (label, value string) {
	switch i.Kind {
	case KindChair:
		return "Cushion Material", i.Extra.Text
	case KindTable:
		return "Frame Material", i.Extra.Text
	case KindSofa:
		return "Capacity", strconv.Itoa(i.Extra.Num)
	case KindLamp:
		return "Light Source", i.Extra.Text
	case KindShelf:
		return "Wall Mounted", strconv.FormatBool(i.Extra.Flag)
	}
	return "", ""
}
