package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/upstream"
)

// AdminAPI is the slice of the upstream used by the inventory-admin panel.
type AdminAPI interface {
	CreateCategory(ctx context.Context, in upstream.CategoryInput) (*upstream.Category, error)
	UpdateCategory(ctx context.Context, id string, in upstream.CategoryInput) (*upstream.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type AdminHandler struct {
	api AdminAPI
}

func NewAdminHandler(api AdminAPI) *AdminHandler {
	return &AdminHandler{api: api}
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in upstream.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "missing category name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category, err := h.api.CreateCategory(ctx, in)
	if err != nil {
		writeUpstreamError(w, err, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing category id")
		return
	}

	var in upstream.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category, err := h.api.UpdateCategory(ctx, id, in)
	if err != nil {
		writeUpstreamError(w, err, "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing category id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.api.DeleteCategory(ctx, id); err != nil {
		writeUpstreamError(w, err, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
