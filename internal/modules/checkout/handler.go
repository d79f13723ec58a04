package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s2wears/storefront/internal/modules/cart"
)

// Handler exposes the checkout hand-off endpoint.
type Handler struct {
	carts cart.Service
	cfg   Config
}

func NewHandler(carts cart.Service, cfg Config) *Handler {
	return &Handler{carts: carts, cfg: cfg}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/checkout", h.checkout)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(cart.SessionHeader)
	c := h.carts.Get(r.Context(), sessionID)
	if len(c.Lines) == 0 {
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	}
	handoff := Compose(c, h.cfg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(handoff)
}
