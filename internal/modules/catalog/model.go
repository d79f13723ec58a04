package catalog

import (
	"time"
)

// Color is a named swatch shown on the product page.
type Color struct {
	Name  string `json:"name" firestore:"name"`
	Value string `json:"value" firestore:"value"`
}

// Product is a catalog entry. Prices are in minor units (ngwee).
// OriginalPrice carries the pre-discount price and is never below Price;
// that is enforced when input is accepted, not by the stores.
type Product struct {
	ID            string    `json:"id" firestore:"-"`
	Name          string    `json:"name" firestore:"name"`
	Price         int64     `json:"price" firestore:"price"`
	OriginalPrice int64     `json:"original_price" firestore:"original_price"`
	Description   string    `json:"description,omitempty" firestore:"description"`
	Category      string    `json:"category" firestore:"category"`
	Sizes         []string  `json:"sizes" firestore:"sizes"`
	Colors        []Color   `json:"colors" firestore:"colors"`
	Images        []string  `json:"images" firestore:"images"`
	Features      []string  `json:"features" firestore:"features"`
	Rating        float64   `json:"rating" firestore:"rating"`
	Reviews       int       `json:"reviews" firestore:"reviews"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updated_at"`
}

// Categories is the fixed set a product may belong to.
var Categories = []string{"tees", "hoodies", "joggers", "caps", "accessories"}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Defaults used by Sanitize when a record arrives with missing or malformed
// fields.
const (
	PlaceholderImage = "/images/placeholder.png"
	defaultRating    = 4.5
)

var (
	defaultSizes    = []string{"M"}
	defaultColors   = []Color{{Name: "Black", Value: "#000000"}}
	defaultFeatures = []string{"Premium quality"}
)

// Sanitize normalizes a possibly-malformed record to safe defaults. It is a
// total function: any input produces a Product with non-empty Images,
// Colors, Sizes and Features, so callers never see a record that violates
// those invariants regardless of what the cache or the remote store held.
func Sanitize(p Product) Product {
	if len(p.Images) == 0 {
		p.Images = []string{PlaceholderImage}
	}
	if len(p.Colors) == 0 {
		p.Colors = append([]Color(nil), defaultColors...)
	}
	if len(p.Sizes) == 0 {
		p.Sizes = append([]string(nil), defaultSizes...)
	}
	if len(p.Features) == 0 {
		p.Features = append([]string(nil), defaultFeatures...)
	}
	if p.Rating <= 0 {
		p.Rating = defaultRating
	}
	if p.Reviews < 0 {
		p.Reviews = 0
	}
	if !ValidCategory(p.Category) {
		p.Category = "tees"
	}
	return p
}

// demoProducts seed the local cache the first time it is read before any
// remote fetch has succeeded, so the storefront never renders empty.
func demoProducts() []Product {
	now := time.Now().UTC()
	return []Product{
		{
			ID:            "demo-classic-tee",
			Name:          "S2 Classic Tee",
			Price:         24900,
			OriginalPrice: 29900,
			Description:   "Heavyweight cotton tee with the S2 monogram.",
			Category:      "tees",
			Sizes:         []string{"S", "M", "L", "XL"},
			Colors:        []Color{{Name: "Black", Value: "#000000"}, {Name: "Sand", Value: "#d2b48c"}},
			Images:        []string{PlaceholderImage},
			Features:      []string{"220gsm cotton", "Relaxed fit"},
			Rating:        4.8,
			Reviews:       12,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "demo-zip-hoodie",
			Name:          "S2 Zip Hoodie",
			Price:         54900,
			OriginalPrice: 64900,
			Description:   "Fleece-lined zip hoodie for cold evenings.",
			Category:      "hoodies",
			Sizes:         []string{"M", "L", "XL"},
			Colors:        []Color{{Name: "Charcoal", Value: "#36454f"}},
			Images:        []string{PlaceholderImage},
			Features:      []string{"Brushed fleece", "Double-stitched seams"},
			Rating:        4.6,
			Reviews:       7,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}
