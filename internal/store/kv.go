// Package store persists the sensor record list as one JSON blob under a single
// key of an injected key-value capability.
package store

import (
	"context"
	"errors"
	"fmt"
)

// KV is the opaque key-value capability the record store runs on. Each call is
// atomic from the caller's point of view; nothing spans calls.
type KV interface {
	// Get returns the stored value, or ok=false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

var (
	// ErrStorage is matched by every *StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")

	// ErrCorruptData means the stored blob exists but cannot be decoded.
	ErrCorruptData = errors.New("stored records are corrupt")
)

// StorageError wraps a failed KV call.
type StorageError struct {
	Op  string // get, set, remove
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
