package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
)

type DiscountService interface {
	Apply(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error)
	Get(ctx context.Context, userID string) (*discount.State, error)
	Remove(ctx context.Context, userID string) error
}

type DiscountHandler struct {
	discounts DiscountService
	carts     CartService
}

func NewDiscountHandler(discounts DiscountService, carts CartService) *DiscountHandler {
	return &DiscountHandler{discounts: discounts, carts: carts}
}

type discountResponse struct {
	Discount        *discount.State `json:"discount"`
	Message         string          `json:"message,omitempty"`
	Total           float64         `json:"total"`
	DiscountedTotal float64         `json:"discountedTotal"`
}

func (h *DiscountHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	state, msg, err := h.discounts.Apply(ctx, userID, body.Code, c)
	if err != nil {
		var rejected *discount.RejectedError
		switch {
		case errors.Is(err, discount.ErrEmptyCode):
			writeError(w, http.StatusBadRequest, "enter a discount code")
		case errors.Is(err, discount.ErrAlreadyApplied):
			writeError(w, http.StatusConflict, "a discount is already applied")
		case errors.Is(err, discount.ErrPromotionalItems):
			writeError(w, http.StatusUnprocessableEntity, "discount codes are not valid for promotional items")
		case errors.As(err, &rejected):
			writeError(w, http.StatusUnprocessableEntity, rejected.Reason)
		default:
			writeUpstreamError(w, err, "failed to validate discount code")
		}
		return
	}

	total := c.TotalPrice()
	writeJSON(w, http.StatusOK, discountResponse{
		Discount:        state,
		Message:         msg,
		Total:           total,
		DiscountedTotal: discount.DiscountedTotal(total, state.Percent),
	})
}

func (h *DiscountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	state, err := h.discounts.Get(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load discount")
		return
	}

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	total := c.TotalPrice()
	resp := discountResponse{Discount: state, Total: total, DiscountedTotal: total}
	if state != nil {
		resp.DiscountedTotal = discount.DiscountedTotal(total, state.Percent)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Remove is idempotent, matching the store semantics.
func (h *DiscountHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.discounts.Remove(ctx, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove discount")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
