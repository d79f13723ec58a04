package kv

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used in tests and as a throwaway cache
// when no data directory is writable.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	maxBytes int64
}

func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), maxBytes: maxBytes}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, val []byte) error {
	if s.maxBytes > 0 && int64(len(val)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, ceiling %d", ErrCapacity, len(val), s.maxBytes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(val))
	copy(cp, val)
	s.data[key] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
