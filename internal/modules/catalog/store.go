package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no product matches the requested id in any
// tier. Absence is not a failure of the lookup itself.
var ErrNotFound = errors.New("catalog: product not found")

// Store is the remote document tier holding the authoritative product
// collection. Implementations: Firestore and Postgres.
type Store interface {
	// Insert writes a new product and returns the store-assigned id.
	Insert(ctx context.Context, p Product) (string, error)
	// GetAll returns the collection ordered by creation time, newest first.
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	// Update applies a partial patch to an existing record.
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}

// Patch is a partial product update. Nil pointer and nil slice fields are
// left untouched.
type Patch struct {
	Name          *string  `json:"name"`
	Price         *int64   `json:"price"`
	OriginalPrice *int64   `json:"original_price"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Sizes         []string `json:"sizes"`
	Colors        []Color  `json:"colors"`
	Images        []string `json:"images"`
	Features      []string `json:"features"`
	Rating        *float64 `json:"rating"`
	Reviews       *int     `json:"reviews"`
}

// Apply overwrites the set fields of p and bumps UpdatedAt.
func (u Patch) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		p.OriginalPrice = *u.OriginalPrice
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Sizes != nil {
		p.Sizes = u.Sizes
	}
	if u.Colors != nil {
		p.Colors = u.Colors
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Features != nil {
		p.Features = u.Features
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Reviews != nil {
		p.Reviews = *u.Reviews
	}
	p.UpdatedAt = time.Now().UTC()
}
