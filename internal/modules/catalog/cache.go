package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/s2wears/storefront/internal/kv"
	"github.com/s2wears/storefront/internal/obs"
)

// CacheKey is the single namespaced key holding the serialized catalog.
const CacheKey = "s2wears:products"

// envelope wraps the cached list with a version counter. Another writer
// bumping the counter between our read and our write means a concurrent
// write happened; we log it and let last-write-wins stand.
type envelope struct {
	Version  int64     `json:"version"`
	Products []Product `json:"products"`
}

// Cache is the local tier of the catalog: one serialized blob, read-modify-
// written under a process-wide mutex. All catalog mutation funnels through
// the Service that owns this cache; nothing else writes the key.
type Cache struct {
	store kv.Store
	key   string

	mu          sync.Mutex
	lastVersion int64
}

func NewCache(store kv.Store) *Cache {
	return &Cache{store: store, key: CacheKey}
}

// Load returns the cached products and whether the key has ever been
// populated. Corrupt or unreadable payloads count as never populated.
func (c *Cache) Load(ctx context.Context) ([]Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, ok := c.read(ctx)
	if !ok {
		return nil, false
	}
	return env.Products, true
}

func (c *Cache) read(ctx context.Context) (envelope, bool) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			obs.Logger.Warn("catalog cache read failed", "err", err)
		}
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		obs.Logger.Warn("catalog cache corrupt, treating as empty", "err", err)
		return envelope{}, false
	}
	return env, true
}

// Save overwrites the cache with products. A kv.ErrCapacity from the store
// is passed through so the caller can offer remediation.
func (c *Cache) Save(ctx context.Context, products []Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, products)
}

func (c *Cache) save(ctx context.Context, products []Product) error {
	cur, ok := c.read(ctx)
	if ok && c.lastVersion != 0 && cur.Version != c.lastVersion {
		obs.Logger.Warn("catalog cache written concurrently, keeping last write",
			"seen", cur.Version, "expected", c.lastVersion)
	}
	next := envelope{Version: cur.Version + 1, Products: products}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, c.key, raw); err != nil {
		return err
	}
	c.lastVersion = next.Version
	return nil
}

// Prepend puts p at the head of the cached list, dropping any existing
// record with the same id.
func (c *Cache) Prepend(ctx context.Context, p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, _ := c.read(ctx)
	merged := []Product{p}
	for _, cur := range env.Products {
		if cur.ID != p.ID {
			merged = append(merged, cur)
		}
	}
	return c.save(ctx, merged)
}

// Patch applies a partial update to the cached record with the given id and
// reports whether it was present.
func (c *Cache) Patch(ctx context.Context, id string, patch Patch) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, ok := c.read(ctx)
	if !ok {
		return false, nil
	}
	found := false
	for i := range env.Products {
		if env.Products[i].ID == id {
			patch.Apply(&env.Products[i])
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, c.save(ctx, env.Products)
}

// Remove deletes the cached record with the given id, if present.
func (c *Cache) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, ok := c.read(ctx)
	if !ok {
		return nil
	}
	kept := env.Products[:0]
	for _, p := range env.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return c.save(ctx, kept)
}

// StripInlineImages replaces base64 data URLs with the placeholder across
// the cached list. It is the cheapest remediation when the cache hits its
// size ceiling, since inline payloads dominate the blob. Returns how many
// image references were stripped.
func (c *Cache) StripInlineImages(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, ok := c.read(ctx)
	if !ok {
		return 0, nil
	}
	stripped := 0
	for i := range env.Products {
		for j, img := range env.Products[i].Images {
			if strings.HasPrefix(img, "data:") {
				env.Products[i].Images[j] = PlaceholderImage
				stripped++
			}
		}
	}
	if stripped == 0 {
		return 0, nil
	}
	return stripped, c.save(ctx, env.Products)
}

// EvictOldest drops the n oldest records (tail of the list, which is kept
// newest-first). Returns how many were evicted.
func (c *Cache) EvictOldest(ctx context.Context, n int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	env, ok := c.read(ctx)
	if !ok || n <= 0 {
		return 0, nil
	}
	if n > len(env.Products) {
		n = len(env.Products)
	}
	kept := env.Products[:len(env.Products)-n]
	return n, c.save(ctx, kept)
}

// Clear removes the cache key entirely. The next read reseeds demo data.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastVersion = 0
	return c.store.Delete(ctx, c.key)
}
