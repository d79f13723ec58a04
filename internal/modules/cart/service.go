package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/s2wears/storefront/internal/kv"
	"github.com/s2wears/storefront/internal/modules/catalog"
	"github.com/s2wears/storefront/internal/obs"
)

// ErrValidation tags cart input rejected before any storage access.
var ErrValidation = errors.New("cart: invalid request")

// Service manages session carts.
type Service interface {
	Get(ctx context.Context, sessionID string) Cart
	Add(ctx context.Context, sessionID string, req AddLineRequest) (Cart, error)
	SetQuantity(ctx context.Context, sessionID string, req SetQuantityRequest) (Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   kv.Store
	catalog catalog.Service
}

func NewService(store kv.Store, cat catalog.Service) Service {
	return &service{store: store, catalog: cat}
}

func cartKey(sessionID string) string { return "s2wears:cart:" + sessionID }

func (s *service) load(ctx context.Context, sessionID string) Cart {
	raw, err := s.store.Get(ctx, cartKey(sessionID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			obs.Logger.Warn("cart read failed", "session", sessionID, "err", err)
		}
		return Cart{}
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		obs.Logger.Warn("cart corrupt, starting empty", "session", sessionID, "err", err)
		return Cart{}
	}
	return c
}

func (s *service) save(ctx context.Context, sessionID string, c Cart) (Cart, error) {
	c.Subtotal = c.computeSubtotal()
	raw, err := json.Marshal(c)
	if err != nil {
		return Cart{}, err
	}
	if err := s.store.Put(ctx, cartKey(sessionID), raw); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, sessionID string) Cart {
	c := s.load(ctx, sessionID)
	c.Subtotal = c.computeSubtotal()
	return c
}

func (s *service) Add(ctx context.Context, sessionID string, req AddLineRequest) (Cart, error) {
	if req.ProductID == "" {
		return Cart{}, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if req.Quantity <= 0 {
		return Cart{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	p, err := s.catalog.Get(ctx, req.ProductID)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: unknown product %s", ErrValidation, req.ProductID)
	}
	size := req.Size
	if size == "" {
		size = p.Sizes[0]
	}
	color := req.Color
	if color == "" {
		color = p.Colors[0].Name
	}

	c := s.load(ctx, sessionID)
	for i, l := range c.Lines {
		if l.ProductID == req.ProductID && l.Size == size && l.Color == color {
			c.Lines[i].Quantity += req.Quantity
			return s.save(ctx, sessionID, c)
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Size:      size,
		Color:     color,
		Quantity:  req.Quantity,
		UnitPrice: p.Price,
		Name:      p.Name,
		Image:     p.Images[0],
	})
	return s.save(ctx, sessionID, c)
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, req SetQuantityRequest) (Cart, error) {
	if req.ProductID == "" {
		return Cart{}, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	c := s.load(ctx, sessionID)
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID == req.ProductID && l.Size == req.Size && l.Color == req.Color {
			if req.Quantity <= 0 {
				continue // drop the line
			}
			l.Quantity = req.Quantity
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return s.save(ctx, sessionID, c)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, cartKey(sessionID))
}
