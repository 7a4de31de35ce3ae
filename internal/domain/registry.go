package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Age bounds accepted at registration time.
const (
	MinAge = 1
	MaxAge = 120
)

// Registry manages the set of known users.
type Registry struct {
	users UserStore
}

// NewRegistry constructs a Registry backed by the given store.
func NewRegistry(users UserStore) *Registry {
	return &Registry{users: users}
}

// ListUsers returns all users, newest first.
func (r *Registry) ListUsers(ctx context.Context) ([]User, error) {
	return r.users.ListUsers(ctx)
}

// GetUser resolves a single user, nil when absent.
func (r *Registry) GetUser(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, validationErrorf("invalid user id %q", id)
	}
	return r.users.GetUser(ctx, id)
}

// CreateUser validates the profile and persists it. The store assigns the
// ID and creation timestamp.
func (r *Registry) CreateUser(ctx context.Context, name string, age int) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("name must not be empty")
	}
	if age < MinAge || age > MaxAge {
		return nil, validationErrorf("age must be between %d and %d", MinAge, MaxAge)
	}

	created, err := r.users.InsertUser(ctx, User{Name: name, Age: age})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteUser removes the user and, through the store, every workout that
// references it. Deleting an id that no longer exists succeeds as a no-op.
func (r *Registry) DeleteUser(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validationErrorf("invalid user id %q", id)
	}
	return r.users.DeleteUser(ctx, id)
}
