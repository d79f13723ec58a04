package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key as a file under a data directory. It is the
// default cache tier for single-node deployments and for local development.
type FileStore struct {
	dir      string
	maxBytes int64
}

// NewFileStore creates the data directory if needed. maxBytes <= 0 disables
// the size ceiling.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: create data dir: %w", err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

// filename maps a namespaced key like "s2wears:products" to a flat file name.
func (s *FileStore) filename(key string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(s.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *FileStore) Put(ctx context.Context, key string, val []byte) error {
	if s.maxBytes > 0 && int64(len(val)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, ceiling %d", ErrCapacity, len(val), s.maxBytes)
	}
	// Write-then-rename keeps readers from ever seeing a torn value.
	tmp := s.filename(key) + ".tmp"
	if err := os.WriteFile(tmp, val, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filename(key))
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
