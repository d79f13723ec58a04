// Package kv provides the small key-value storage layer backing the local
// catalog cache and session carts. A single key holds one serialized blob;
// implementations enforce a per-key size ceiling so callers can surface a
// capacity warning instead of silently losing data.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// ErrCapacity is returned when a put would exceed the store's per-key size
// ceiling. The value is not written; the caller decides how to shed weight.
var ErrCapacity = errors.New("kv: value exceeds size ceiling")

// Store is the interface for blob storage keyed by a namespaced string.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}
