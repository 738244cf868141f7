// Package store provides the key-value storage scopes used for client-side
// state: a per-process session scope and a persistent scope that survives
// restarts. All cached state goes through the Store interface so callers
// never touch a concrete backend directly.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key-value surface over one storage scope.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all keys currently present in the scope.
	Keys(ctx context.Context) ([]string, error)
}
