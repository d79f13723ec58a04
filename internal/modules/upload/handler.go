package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the admin upload endpoint. Retrying lives here, at the
// action boundary, never inside the orchestrator: one HTTP request maps to
// at most two orchestrator calls, and each of those is idempotent.
type Handler struct {
	orch  *Orchestrator
	admin func(http.Handler) http.Handler
}

const retryAttempts = 2

func NewHandler(orch *Orchestrator, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{orch: orch, admin: admin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.admin)
		r.Post("/api/v1/uploads", h.upload)
	})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "multipart field \"image\" is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := &Request{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		ProductID:   r.FormValue("product_id"),
	}

	var result Result
	for attempt := 1; ; attempt++ {
		result, err = h.orch.Upload(r.Context(), req)
		if err == nil || attempt >= retryAttempts || isValidation(err) {
			break
		}
	}
	if err != nil {
		status := http.StatusBadGateway
		if isValidation(err) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func isValidation(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Category == CategoryValidation
}
