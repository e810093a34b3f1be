// Package memory provides the in-memory repositories the storefront runs on:
// explicit injected collections instead of process-wide globals.
package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/ranito1909/furniture-store/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by a guarded slice.
// Order ids are sequential, starting at 1.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*order.Order
	nextID int64
}

// NewOrderRepository returns an empty order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{nextID: 1}
}

// Create assigns the next sequential id and appends the order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, o)
	return nil
}

// Get returns the order with the given id.
func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.Wrapf(order.ErrNotFound, "id %d", id)
}

// ByUser returns the user's orders, oldest first.
func (r *OrderRepository) ByUser(ctx context.Context, email string) ([]*order.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*order.Order
	for _, o := range r.orders {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}
