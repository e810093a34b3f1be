// Package inventory tracks on-hand stock for catalog items.
package inventory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ranito1909/furniture-store/internal/domain/catalog"
)

// Sentinel errors for ledger operations.
var (
	ErrNotFound          = errors.New("item not tracked by ledger")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrIDConflict        = errors.New("item id already held by a different item")
)

// Entry pairs a catalog item with its on-hand quantity.
type Entry struct {
	Item     *catalog.Item
	Quantity int
}

// Deduction is one line of an all-or-nothing stock deduction.
type Deduction struct {
	Item     *catalog.Item
	Quantity int
}

// Ledger is the process-wide stock register. It maps catalog items (by their
// ledger-assigned id) to a strictly positive quantity; an entry whose quantity
// reaches zero is removed rather than kept at zero.
//
// A Ledger is constructed explicitly and injected wherever stock is read or
// mutated; "one ledger per process" is a wiring decision, not a hidden global.
// All operations are safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	nextID  int64
}

type entry struct {
	item *catalog.Item
	qty  int
}

// NewLedger creates a ledger holding the given restored entries. The id
// counter is seeded one past the highest restored id, so ids are never
// reissued across restores. Restored items without an id are assigned one.
func NewLedger(restored ...Entry) *Ledger {
	l := &Ledger{
		entries: make(map[int64]*entry, len(restored)),
		nextID:  1,
	}
	for _, e := range restored {
		if e.Item.ID >= l.nextID {
			l.nextID = e.Item.ID + 1
		}
	}
	for _, e := range restored {
		if e.Quantity <= 0 {
			continue
		}
		if e.Item.ID == 0 {
			e.Item.ID = l.nextID
			l.nextID++
		}
		l.entries[e.Item.ID] = &entry{item: e.Item, qty: e.Quantity}
	}
	return l
}

// NextID returns the current id counter value and increments it.
func (l *Ledger) NextID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	return id
}

// AddItem registers quantity units of the item. An item seen for the first
// time is assigned the next free id; an item already tracked has its quantity
// incremented. There is no upper bound on stock.
func (l *Ledger) AddItem(ctx context.Context, item *catalog.Item, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return errors.Wrapf(ErrInvalidQuantity, "got %d", quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if item.ID == 0 {
		item.ID = l.nextID
		l.nextID++
	}
	e, ok := l.entries[item.ID]
	if !ok {
		l.entries[item.ID] = &entry{item: item, qty: quantity}
		return nil
	}
	if e.item != item {
		return errors.Wrapf(ErrIDConflict, "id %d", item.ID)
	}
	e.qty += quantity
	return nil
}

// RemoveItem deducts quantity units of the item. It fails with ErrNotFound for
// untracked items and ErrInsufficientStock when fewer units are held than
// requested. An entry whose quantity reaches zero is deleted.
func (l *Ledger) RemoveItem(ctx context.Context, item *catalog.Item, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return errors.Wrapf(ErrInvalidQuantity, "got %d", quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[item.ID]
	if !ok || e.item != item {
		return errors.Wrapf(ErrNotFound, "item %q", item.Name)
	}
	if e.qty < quantity {
		return errors.Wrapf(ErrInsufficientStock, "item %q: have %d, want %d", item.Name, e.qty, quantity)
	}
	e.qty -= quantity
	if e.qty <= 0 {
		delete(l.entries, item.ID)
	}
	return nil
}

// UpdateQuantity sets the item's quantity outright. A quantity of zero or less
// removes the entry, equivalent to explicit removal.
func (l *Ledger) UpdateQuantity(ctx context.Context, item *catalog.Item, quantity int) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[item.ID]
	if !ok || e.item != item {
		return errors.Wrapf(ErrNotFound, "item %q", item.Name)
	}
	if quantity <= 0 {
		delete(l.entries, item.ID)
		return nil
	}
	e.qty = quantity
	return nil
}

// Quantity reports the units on hand for the item. Untracked items report
// zero; this never fails.
func (l *Ledger) Quantity(ctx context.Context, item *catalog.Item) int {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[item.ID]
	if !ok || e.item != item {
		return 0
	}
	return e.qty
}

// Available reports whether at least one unit of the item is in stock,
// logging a warning when it is not.
func (l *Ledger) Available(ctx context.Context, item *catalog.Item) bool {
	if l.Quantity(ctx, item) > 0 {
		return true
	}
	zctx.From(ctx).Warn("Item out of stock",
		zap.Int64("item_id", item.ID),
		zap.String("item", item.Name),
	)
	return false
}

// ItemByID returns the tracked item with the given id.
func (l *Ledger) ItemByID(ctx context.Context, id int64) (*catalog.Item, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return e.item, nil
}

// ItemByName returns the first tracked item (lowest id) whose name equals
// name exactly.
func (l *Ledger) ItemByName(ctx context.Context, name string) (*catalog.Item, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	var found *catalog.Item
	for _, e := range l.entries {
		if e.item.Name != name {
			continue
		}
		if found == nil || e.item.ID < found.ID {
			found = e.item
		}
	}
	if found == nil {
		return nil, errors.Wrapf(ErrNotFound, "name %q", name)
	}
	return found, nil
}

// Filter narrows a Search. Zero-valued fields impose no constraint; the
// supplied ones are AND-combined.
type Filter struct {
	// Name matches as a case-insensitive substring.
	Name string
	// MinPrice and MaxPrice are inclusive bounds.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Kind     catalog.Kind
}

// Search returns all tracked items satisfying the filter, ordered by id.
func (l *Ledger) Search(ctx context.Context, f Filter) []*catalog.Item {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	needle := strings.ToLower(f.Name)
	var out []*catalog.Item
	for _, e := range l.entries {
		if needle != "" && !strings.Contains(strings.ToLower(e.item.Name), needle) {
			continue
		}
		if f.MinPrice != nil && e.item.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && e.item.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.Kind != "" && e.item.Kind != f.Kind {
			continue
		}
		out = append(out, e.item)
	}
	slices.SortFunc(out, func(a, b *catalog.Item) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Entries returns a snapshot of all tracked items and quantities, ordered by id.
func (l *Ledger) Entries(ctx context.Context) []Entry {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, Entry{Item: e.item, Quantity: e.qty})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Item.ID, b.Item.ID) })
	return out
}

// Deduct applies all deductions as one atomic unit: either every line is
// deducted or none are. Duplicate lines for the same item are aggregated
// before checking stock, so two concurrent checkouts can both validate
// optimistically and still never oversell: the loser fails here.
func (l *Ledger) Deduct(ctx context.Context, deductions []Deduction) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	wanted := make(map[int64]int, len(deductions))
	for _, d := range deductions {
		if d.Quantity <= 0 {
			return errors.Wrapf(ErrInvalidQuantity, "item %q: got %d", d.Item.Name, d.Quantity)
		}
		wanted[d.Item.ID] += d.Quantity
	}

	for _, d := range deductions {
		e, ok := l.entries[d.Item.ID]
		if !ok || e.item != d.Item {
			return errors.Wrapf(ErrNotFound, "item %q", d.Item.Name)
		}
		if want := wanted[d.Item.ID]; e.qty < want {
			return errors.Wrapf(ErrInsufficientStock, "item %q: have %d, want %d", d.Item.Name, e.qty, want)
		}
	}

	for id, want := range wanted {
		e := l.entries[id]
		e.qty -= want
		if e.qty <= 0 {
			delete(l.entries, id)
		}
	}
	return nil
}
