// Package kv provides namespaced key-value stores. A Factory hands out one
// Store per namespace; keys in different namespaces never collide.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// Store is a key-value collection scoped to a single namespace.
type Store interface {
	// Namespace returns the collection name this store is bound to.
	Namespace() string
	// Get returns the value for key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Factory returns stores keyed by namespace name.
type Factory interface {
	Get(namespace string) Store
	// Ping checks backend connectivity.
	Ping(ctx context.Context) error
}
