package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/ranito1909/furniture-store/internal/domain/user"
)

var _ user.Registry = (*UserRegistry)(nil)

// UserRegistry implements user.Registry backed by a guarded map keyed by email.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

// NewUserRegistry returns an empty user registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{users: make(map[string]*user.User)}
}

// ByEmail returns the user with the given email.
func (r *UserRegistry) ByEmail(ctx context.Context, email string) (*user.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, errors.Wrapf(user.ErrNotFound, "email %q", email)
	}
	return u, nil
}

// Save inserts or replaces a user.
func (r *UserRegistry) Save(ctx context.Context, u *user.User) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.Email] = u
	return nil
}

// Delete removes the user with the given email.
func (r *UserRegistry) Delete(ctx context.Context, email string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[email]; !ok {
		return errors.Wrapf(user.ErrNotFound, "email %q", email)
	}
	delete(r.users, email)
	return nil
}
