// Package order defines finalized purchase records and their persistence contract.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status tracks an order through fulfilment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCanceled  Status = "CANCELED"
)

// Line is one flattened cart leaf captured at finalize time. UnitPrice is the
// effective (post-discount) per-unit price the customer paid.
type Line struct {
	ItemID    int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is a completed purchase. ID is sequential, assigned by the repository
// at creation. Orders are immutable except for their status.
type Order struct {
	ID        int64
	UserEmail string
	Items     []Line
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// SetStatus moves the order to a new fulfilment status.
func (o *Order) SetStatus(s Status) {
	o.Status = s
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists a new order, assigning it the next sequential id.
	Create(ctx context.Context, o *Order) error
	// Get returns the order with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Order, error)
	// ByUser returns all orders placed by the given user, oldest first.
	ByUser(ctx context.Context, email string) ([]*Order, error)
}
