package catalog

import "testing"

func TestSanitizeFillsEveryInvariant(t *testing.T) {
	got := Sanitize(Product{ID: "p1", Name: "Bare", Price: 1000})
	if len(got.Images) == 0 || len(got.Colors) == 0 || len(got.Sizes) == 0 || len(got.Features) == 0 {
		t.Fatalf("sanitize left empty fields: %+v", got)
	}
	if got.Images[0] != PlaceholderImage {
		t.Fatalf("expected placeholder image, got %q", got.Images[0])
	}
	if got.Rating <= 0 {
		t.Fatalf("expected default rating, got %v", got.Rating)
	}
	if !ValidCategory(got.Category) {
		t.Fatalf("expected valid category, got %q", got.Category)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	once := Sanitize(Product{ID: "p1"})
	twice := Sanitize(once)
	if len(twice.Images) != len(once.Images) || twice.Rating != once.Rating {
		t.Fatalf("sanitize not idempotent: %+v vs %+v", once, twice)
	}
}

func TestSanitizeKeepsGoodRecordsIntact(t *testing.T) {
	in := Product{
		ID:       "p2",
		Name:     "Tee",
		Price:    1999,
		Category: "tees",
		Sizes:    []string{"S", "M"},
		Colors:   []Color{{Name: "Red", Value: "#f00"}},
		Images:   []string{"http://x/img.jpg"},
		Features: []string{"Cotton"},
		Rating:   4.2,
		Reviews:  3,
	}
	got := Sanitize(in)
	if got.Images[0] != "http://x/img.jpg" || got.Colors[0].Name != "Red" || got.Rating != 4.2 {
		t.Fatalf("sanitize altered a well-formed record: %+v", got)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	if ValidCategory("furniture") {
		t.Error("unknown category accepted")
	}
}
