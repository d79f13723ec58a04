package cart

// Line is one entry in a session cart. UnitPrice, Name and Image are
// resolved server-side from the catalog when the line is added; the client
// only names the product, size, color and quantity.
type Line struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

// Cart is the full contents of one session's cart.
type Cart struct {
	Lines    []Line `json:"lines"`
	Subtotal int64  `json:"subtotal"`
}

func (c Cart) computeSubtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}

// AddLineRequest is the payload for putting a product in the cart.
type AddLineRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityRequest changes the quantity of an existing line; zero or
// negative removes it.
type SetQuantityRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}
