package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/s2wears/storefront/internal/modules/cart"
)

func testCart() cart.Cart {
	c := cart.Cart{Lines: []cart.Line{
		{ProductID: "tee-1", Name: "Classic Tee", Size: "M", Color: "Black", Quantity: 2, UnitPrice: 24900},
		{ProductID: "hoodie-1", Name: "Zip Hoodie", Size: "L", Color: "Charcoal", Quantity: 1, UnitPrice: 54900},
	}}
	c.Subtotal = 2*24900 + 54900
	return c
}

func testConfig() Config {
	return Config{
		Number:            "260971234567",
		BaseURL:           "https://s2wears.com",
		ShippingFlat:      5000,
		FreeShippingAbove: 200000,
	}
}

func TestComposeTotals(t *testing.T) {
	h := Compose(testCart(), testConfig())
	if h.Subtotal != 104700 {
		t.Fatalf("subtotal %d", h.Subtotal)
	}
	if h.Shipping != 5000 {
		t.Fatalf("shipping %d", h.Shipping)
	}
	if h.Total != 109700 {
		t.Fatalf("total %d", h.Total)
	}
}

func TestComposeFreeShippingThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.FreeShippingAbove = 100000
	h := Compose(testCart(), cfg)
	if h.Shipping != 0 {
		t.Fatalf("expected free shipping, got %d", h.Shipping)
	}
	if !strings.Contains(h.Message, "Shipping: FREE") {
		t.Fatalf("message missing free shipping line:\n%s", h.Message)
	}
}

func TestComposeMessageContents(t *testing.T) {
	h := Compose(testCart(), testConfig())
	for _, want := range []string{
		"Classic Tee (M / Black) x2 - K498.00",
		"Zip Hoodie (L / Charcoal) x1 - K549.00",
		"https://s2wears.com/product/tee-1",
		"Subtotal: K1047.00",
		"Shipping: K50.00",
		"Total: K1097.00",
	} {
		if !strings.Contains(h.Message, want) {
			t.Errorf("message missing %q:\n%s", want, h.Message)
		}
	}
}

func TestComposeDeepLink(t *testing.T) {
	h := Compose(testCart(), testConfig())
	if !strings.HasPrefix(h.URL, "https://wa.me/260971234567?") {
		t.Fatalf("unexpected link prefix: %s", h.URL)
	}
	u, err := url.Parse(h.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Query().Get("text"); got != h.Message {
		t.Fatalf("text param does not round-trip:\n%q\n%q", got, h.Message)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{
		0:     "K0.00",
		5:     "K0.05",
		5000:  "K50.00",
		24900: "K249.00",
	}
	for in, want := range cases {
		if got := formatMoney(in); got != want {
			t.Errorf("formatMoney(%d) = %q, want %q", in, got, want)
		}
	}
}
