package kv

import "errors"

// ErrNotFound is returned when a key doesn't exist in the store.
var ErrNotFound = errors.New("key not found")
