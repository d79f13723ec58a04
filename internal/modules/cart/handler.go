package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionHeader carries the anonymous cart session id. A missing or blank
// header gets a fresh id, echoed back so the client can keep it.
const SessionHeader = "X-Session-ID"

// Handler exposes cart HTTP endpoints. Carts are public: there is no login
// on the storefront side.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Post("/lines", h.add)
		r.Put("/lines", h.setQuantity)
		r.Delete("/", h.clear)
	})
}

func session(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(SessionHeader, id)
	return id
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Get(r.Context(), session(w, r)))
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := h.service.Add(r.Context(), session(w, r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := h.service.SetQuantity(r.Context(), session(w, r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), session(w, r)); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrValidation) {
		status = http.StatusBadRequest
	}
	respond(w, status, map[string]string{"error": err.Error()})
}
