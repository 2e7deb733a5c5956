package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/upstream"
)

type CartService interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	AddProduct(ctx context.Context, userID string, p upstream.Product) (*cart.Cart, cart.Notice, error)
	IncreaseLine(ctx context.Context, userID, productID string) (*cart.Cart, error)
	DecreaseLine(ctx context.Context, userID, productID string) (*cart.Cart, error)
	RemoveLine(ctx context.Context, userID, productID string) (*cart.Cart, cart.Notice, error)
	Clear(ctx context.Context, userID string) (cart.Notice, error)
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartResponse struct {
	Cart       *cart.Cart   `json:"cart"`
	Notice     *cart.Notice `json:"notice,omitempty"`
	TotalItems int          `json:"totalItems"`
	TotalPrice float64      `json:"totalPrice"`
}

func newCartResponse(c *cart.Cart, notice *cart.Notice) cartResponse {
	return cartResponse{
		Cart:       c,
		Notice:     notice,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c, nil))
}

// AddItem accepts a catalog product payload; identifier and price variants
// are normalized by the product decoder before the cart ever sees them.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	var p upstream.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.ID == "" {
		writeError(w, http.StatusBadRequest, "product has no identifier")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, notice, err := h.carts.AddProduct(ctx, userID, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c, &notice))
}

func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjustItem(w, r, h.carts.IncreaseLine)
}

func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjustItem(w, r, h.carts.DecreaseLine)
}

func (h *CartHandler) adjustItem(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, productID string) (*cart.Cart, error)) {
	userID := r.PathValue("userId")
	productID := r.PathValue("productId")
	if userID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := op(ctx, userID, productID)
	if err != nil {
		var stockErr *cart.StockError
		switch {
		case errors.As(err, &stockErr):
			writeError(w, http.StatusConflict, stockErr.Error())
		case errors.Is(err, cart.ErrLineNotFound):
			writeError(w, http.StatusNotFound, "cart line not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update cart")
		}
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c, nil))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	productID := r.PathValue("productId")
	if userID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, notice, err := h.carts.RemoveLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			writeError(w, http.StatusNotFound, "cart line not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c, &notice))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	notice, err := h.carts.Clear(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	resp := map[string]any{"status": "cleared"}
	if notice.Kind != cart.NoticeNone {
		resp["notice"] = notice
	}
	writeJSON(w, http.StatusOK, resp)
}
