package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/s2wears/storefront/internal/obs"
)

// ErrValidation tags product input rejected before any I/O.
var ErrValidation = errors.New("catalog: invalid product")

// Service is the catalog synchronizer: reads are served cache-first and
// never fail, writes go to both tiers with the local cache as the
// guaranteed one. It exclusively owns the cache write path.
type Service interface {
	// List never returns an error; total failure degrades to cached or
	// seeded data.
	List(ctx context.Context) []Product
	Get(ctx context.Context, id string) (Product, error)
	// Create returns the id used: remote-assigned, or synthesized from the
	// current time when the remote insert fails. The only error it returns
	// is a cache capacity error.
	Create(ctx context.Context, req CreateProductRequest) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error

	// Cache remediation for capacity errors.
	StripInlineImages(ctx context.Context) (int, error)
	EvictOldest(ctx context.Context, n int) (int, error)
	ClearCache(ctx context.Context) error
}

// ServiceConfig tunes the synchronizer. Zero values get sane defaults.
type ServiceConfig struct {
	// ReadTimeout bounds every remote call; on expiry the cache answers.
	ReadTimeout time.Duration
	// Offline, when it reports true, skips the remote tier entirely.
	Offline func() bool
}

type service struct {
	remote      Store // nil means cache-only operation
	cache       *Cache
	readTimeout time.Duration
	offline     func() bool
}

func NewService(remote Store, cache *Cache, cfg ServiceConfig) Service {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.Offline == nil {
		cfg.Offline = func() bool { return false }
	}
	return &service{
		remote:      remote,
		cache:       cache,
		readTimeout: cfg.ReadTimeout,
		offline:     cfg.Offline,
	}
}

// CreateProductRequest is the payload for adding a product.
type CreateProductRequest struct {
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Sizes         []string `json:"sizes"`
	Colors        []Color  `json:"colors"`
	Images        []string `json:"images"`
	Features      []string `json:"features"`
	Rating        float64  `json:"rating"`
}

func (r CreateProductRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if r.OriginalPrice != 0 && r.OriginalPrice < r.Price {
		return fmt.Errorf("%w: original price %d below current price %d",
			ErrValidation, r.OriginalPrice, r.Price)
	}
	if !ValidCategory(r.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, r.Category)
	}
	if len(r.Sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", ErrValidation)
	}
	if len(r.Colors) == 0 {
		return fmt.Errorf("%w: at least one color is required", ErrValidation)
	}
	return nil
}

func (r CreateProductRequest) product() Product {
	now := time.Now().UTC()
	original := r.OriginalPrice
	if original == 0 {
		original = r.Price
	}
	return Sanitize(Product{
		Name:          r.Name,
		Price:         r.Price,
		OriginalPrice: original,
		Description:   r.Description,
		Category:      r.Category,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		Images:        r.Images,
		Features:      r.Features,
		Rating:        r.Rating,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func sanitizeAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Sanitize(p)
	}
	return out
}

func (s *service) remoteReachable() bool {
	return s.remote != nil && !s.offline()
}

func (s *service) List(ctx context.Context) []Product {
	if !s.remoteReachable() {
		return s.cached(ctx)
	}
	rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()
	products, err := s.remote.GetAll(rctx)
	if err != nil {
		obs.Logger.Warn("remote catalog fetch failed, serving cache", "err", err)
		return s.cached(ctx)
	}
	if len(products) == 0 {
		// An empty remote result never clobbers a populated cache.
		return s.cached(ctx)
	}
	if err := s.cache.Save(ctx, products); err != nil {
		obs.Logger.Warn("catalog cache overwrite failed", "err", err)
	}
	return sanitizeAll(products)
}

// cached serves the local tier, seeding demo products on first touch.
func (s *service) cached(ctx context.Context) []Product {
	products, ok := s.cache.Load(ctx)
	if !ok {
		products = demoProducts()
		if err := s.cache.Save(ctx, products); err != nil {
			obs.Logger.Warn("seeding catalog cache failed", "err", err)
		}
	}
	return sanitizeAll(products)
}

func (s *service) Get(ctx context.Context, id string) (Product, error) {
	if products, ok := s.cache.Load(ctx); ok {
		for _, p := range products {
			if p.ID == id {
				return Sanitize(p), nil
			}
		}
	}
	if s.remoteReachable() {
		rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
		p, err := s.remote.GetByID(rctx, id)
		cancel()
		if err == nil {
			return Sanitize(p), nil
		}
		if !errors.Is(err, ErrNotFound) {
			obs.Logger.Warn("remote point read failed", "id", id, "err", err)
		}
	}
	// Last resort: a full read may pull the record in from the remote set.
	for _, p := range s.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	p := req.product()

	var id string
	if s.remoteReachable() {
		rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
		rid, err := s.remote.Insert(rctx, p)
		cancel()
		if err != nil {
			obs.Logger.Warn("remote insert failed, falling back to local id", "err", err)
		} else {
			id = rid
		}
	}
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	p.ID = id

	// Refresh the merged view, then guarantee the new record is visible at
	// the head of the cache even if the remote write has not landed.
	_ = s.List(ctx)
	if err := s.cache.Prepend(ctx, p); err != nil {
		return id, err
	}
	return id, nil
}

func (s *service) Update(ctx context.Context, id string, patch Patch) error {
	if patch.Price != nil && patch.OriginalPrice != nil && *patch.OriginalPrice < *patch.Price {
		return fmt.Errorf("%w: original price %d below current price %d",
			ErrValidation, *patch.OriginalPrice, *patch.Price)
	}
	if s.remoteReachable() {
		rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
		err := s.remote.Update(rctx, id, patch)
		cancel()
		if err != nil {
			// Best-effort remote: the cache patch below is the guarantee.
			obs.Logger.Warn("remote update failed", "id", id, "err", err)
		}
	}
	found, err := s.cache.Patch(ctx, id, patch)
	if err != nil {
		return err
	}
	if !found {
		_ = s.List(ctx)
		if _, err := s.cache.Patch(ctx, id, patch); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var remoteErr error
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
		remoteErr = s.remote.Delete(rctx, id)
		cancel()
	}
	// The cache is pruned unconditionally so the two tiers cannot diverge
	// on a failed remote delete; the caller still learns about the failure.
	if err := s.cache.Remove(ctx, id); err != nil {
		obs.Logger.Warn("cache prune failed", "id", id, "err", err)
	}
	if remoteErr != nil {
		return fmt.Errorf("catalog: remote delete: %w", remoteErr)
	}
	return nil
}

func (s *service) StripInlineImages(ctx context.Context) (int, error) {
	return s.cache.StripInlineImages(ctx)
}

func (s *service) EvictOldest(ctx context.Context, n int) (int, error) {
	return s.cache.EvictOldest(ctx, n)
}

func (s *service) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
