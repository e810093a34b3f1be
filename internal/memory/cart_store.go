package memory

import (
	"context"
	"sync"

	"github.com/ranito1909/furniture-store/internal/domain/cart"
)

// CartStore keeps one shopping cart per user, created lazily. It is the
// process-wide cart registry owned by the boundary layer; the checkout core
// only ever sees individual carts.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

// NewCartStore returns an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*cart.Cart)}
}

// ForUser returns the user's cart, creating an empty one on first use.
func (s *CartStore) ForUser(ctx context.Context, email string) *cart.Cart {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[email]
	if !ok {
		c = cart.New(email)
		s.carts[email] = c
	}
	return c
}

// Replace swaps in a freshly built cart for the user, e.g. on a full cart update.
func (s *CartStore) Replace(ctx context.Context, email string, c *cart.Cart) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[email] = c
}

// Drop removes the user's cart, typically after a finalized checkout.
func (s *CartStore) Drop(ctx context.Context, email string) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, email)
}
