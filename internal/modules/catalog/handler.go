package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/s2wears/storefront/internal/kv"
)

// Handler exposes catalog HTTP endpoints. Reads are public; mutations and
// cache remediation sit behind the admin gate.
type Handler struct {
	service Service
	admin   func(http.Handler) http.Handler
}

func NewHandler(service Service, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, admin: admin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Group(func(r chi.Router) {
			r.Use(h.admin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Post("/cache/strip", h.stripInline)
			r.Post("/cache/evict", h.evictOldest)
			r.Post("/cache/clear", h.clearCache)
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products := h.service.List(r.Context())
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.service.Create(r.Context(), req)
	if err != nil && !errors.Is(err, kv.ErrCapacity) {
		respondError(w, err)
		return
	}
	body := map[string]interface{}{"id": id}
	if errors.Is(err, kv.ErrCapacity) {
		// The record exists (remote or local id), only the cache write was
		// refused. Surface the remediation choices instead of failing.
		body["warning"] = "local cache at capacity: strip inline images, evict old records, or clear the cache"
	}
	respond(w, http.StatusCreated, body)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) stripInline(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.StripInlineImages(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"stripped": n})
}

func (h *Handler) evictOldest(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	if n <= 0 {
		n = 1
	}
	evicted, err := h.service.EvictOldest(r.Context(), n)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"evicted": evicted})
}

func (h *Handler) clearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCache(r.Context()); err != nil {
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
	switch {
	case errors.Is(err, ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, kv.ErrCapacity):
		status = http.StatusInsufficientStorage
	}
	respond(w, status, map[string]string{"error": err.Error()})
}
