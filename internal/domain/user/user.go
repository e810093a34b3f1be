// Package user holds the slim user surface the checkout core consumes.
// Registration, passwords, and profile CRUD live with the boundary layer.
package user

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User is a store customer with an order history. The history is a list of
// rendered order summaries, appended to by checkout.
type User struct {
	Email   string
	Name    string
	Address string

	mu     sync.Mutex
	orders []string
}

// New creates a user with an empty order history.
func New(email, name string) *User {
	return &User{Email: email, Name: name}
}

// AddOrder appends a rendered order summary to the user's history.
func (u *User) AddOrder(summary string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.orders = append(u.orders, summary)
}

// OrderHistory returns a copy of the user's order summaries, oldest first.
func (u *User) OrderHistory() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.orders...)
}

// Registry is the user lookup and mutation contract the core expects from
// its collaborators.
type Registry interface {
	// ByEmail returns the user with the given email, or ErrNotFound.
	ByEmail(ctx context.Context, email string) (*User, error)
	// Save inserts or replaces a user.
	Save(ctx context.Context, u *User) error
}
