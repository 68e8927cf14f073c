// Package storage persists session and option records in a shared
// key-value store. The store contract is deliberately minimal: single-key
// get/put/delete with optional per-key expiry, no multi-key transactions
// and no compare-and-swap. Every request is an independent
// read-modify-write, so two concurrent writes to the same session can lose
// one of them; that trade-off is accepted (small private groups, one lost
// vote is low-stakes) instead of introducing distributed locking. A backend
// with conditional puts could tighten this without changing any caller:
// the whole read-mutate-write is safe to retry wholesale.
package storage

import (
	"context"
	"time"
)

// KeyValueStore is the persistence collaborator. A ttl of zero means the
// key never expires.
type KeyValueStore interface {
	// Get returns the value for key, or ErrKeyNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes value under key, replacing any previous value and
	// resetting the expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the values of all live keys starting with prefix.
	List(ctx context.Context, prefix string) ([][]byte, error)
}
