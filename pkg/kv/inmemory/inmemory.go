// Package inmemory provides an in-memory kv.Driver used for tests and
// ephemeral local runs.
package inmemory

import (
	"context"
	"sync"

	"github.com/techcorp/kbase/pkg/kv"
)

// InMemoryDriver implements kv.Driver with a mutex-guarded map.
type InMemoryDriver struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewInMemoryDriver creates an empty in-memory blob store.
func NewInMemoryDriver() *InMemoryDriver {
	return &InMemoryDriver{
		blobs: make(map[string][]byte),
	}
}

// Put stores a copy of the value under the given key.
func (d *InMemoryDriver) Put(_ context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	d.blobs[key] = stored

	return nil
}

// Get retrieves a copy of the value stored under the given key.
func (d *InMemoryDriver) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.blobs[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	result := make([]byte, len(value))
	copy(result, value)

	return result, nil
}

// Close is a no-op for the in-memory driver.
func (d *InMemoryDriver) Close() error {
	return nil
}

var _ kv.Driver = (*InMemoryDriver)(nil)
