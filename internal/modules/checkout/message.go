// Package checkout composes the WhatsApp order hand-off. Nothing is
// consumed back from the messaging side: the API returns a deep link and
// the storefront opens it.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/s2wears/storefront/internal/modules/cart"
)

// Config holds the hand-off knobs. Amounts are minor units.
type Config struct {
	// Number is the shop's WhatsApp number in international format
	// without the plus sign, as wa.me expects it.
	Number            string
	BaseURL           string // public storefront root for product links
	ShippingFlat      int64
	FreeShippingAbove int64
}

// Handoff is the composed order hand-off.
type Handoff struct {
	URL      string `json:"url"`
	Message  string `json:"message"`
	Subtotal int64  `json:"subtotal"`
	Shipping int64  `json:"shipping"`
	Total    int64  `json:"total"`
}

// formatMoney renders minor units as kwacha, e.g. 24900 -> "K249.00".
func formatMoney(n int64) string {
	return fmt.Sprintf("K%d.%02d", n/100, n%100)
}

// Compose builds the order message and wa.me deep link from a cart.
func Compose(c cart.Cart, cfg Config) Handoff {
	subtotal := c.Subtotal
	shipping := cfg.ShippingFlat
	if cfg.FreeShippingAbove > 0 && subtotal >= cfg.FreeShippingAbove {
		shipping = 0
	}
	total := subtotal + shipping

	var b strings.Builder
	b.WriteString("New order from S2 Wears\n\n")
	for i, l := range c.Lines {
		fmt.Fprintf(&b, "%d. %s (%s / %s) x%d - %s\n",
			i+1, l.Name, l.Size, l.Color, l.Quantity,
			formatMoney(l.UnitPrice*int64(l.Quantity)))
		if cfg.BaseURL != "" {
			fmt.Fprintf(&b, "   %s/product/%s\n", strings.TrimRight(cfg.BaseURL, "/"), l.ProductID)
		}
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatMoney(subtotal))
	if shipping == 0 {
		b.WriteString("Shipping: FREE\n")
	} else {
		fmt.Fprintf(&b, "Shipping: %s\n", formatMoney(shipping))
	}
	fmt.Fprintf(&b, "Total: %s", formatMoney(total))

	message := b.String()
	q := url.Values{}
	q.Set("text", message)
	link := "https://wa.me/" + cfg.Number + "?" + q.Encode()

	return Handoff{
		URL:      link,
		Message:  message,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    total,
	}
}
