package http

import (
	"context"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/upstream"
)

type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]upstream.Product, error)
	ProductsByCategorySlug(ctx context.Context, slug string) ([]upstream.Product, error)
	GetProduct(ctx context.Context, id string) (*upstream.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*upstream.Product, error)
	ListCategories(ctx context.Context) ([]upstream.Category, error)
}

type CatalogHandler struct {
	api CatalogAPI
}

func NewCatalogHandler(api CatalogAPI) *CatalogHandler {
	return &CatalogHandler{api: api}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.api.ListProducts(ctx)
	if err != nil {
		writeUpstreamError(w, err, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing category slug")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.api.ProductsByCategorySlug(ctx, slug)
	if err != nil {
		writeUpstreamError(w, err, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.api.GetProduct(ctx, id)
	if err != nil {
		writeUpstreamError(w, err, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing product slug")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.api.GetProductBySlug(ctx, slug)
	if err != nil {
		writeUpstreamError(w, err, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.api.ListCategories(ctx)
	if err != nil {
		writeUpstreamError(w, err, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
