// Package kv provides durable key-value blob persistence for the
// knowledge base. The vector store serializes its whole document
// collection into a single blob under a fixed key: load once at
// startup, rewrite on every mutation. Drivers only need put/get
// semantics, not any particular storage technology.
package kv

import "context"

// Driver defines the interface for persisting and retrieving blobs in a
// storage backend.
type Driver interface {
	// Put stores a value under the given key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Get retrieves the value stored under the given key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Close closes the store and releases any resources.
	Close() error
}
