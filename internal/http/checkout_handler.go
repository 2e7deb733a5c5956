package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/checkout"
	"github.com/andeshop/storefront-go/internal/middleware"
)

type CheckoutService interface {
	Submit(ctx context.Context, userID, customerID string) (*checkout.Result, error)
}

type CheckoutHandler struct {
	checkouts CheckoutService
	snapshots checkout.SnapshotRepository
}

func NewCheckoutHandler(checkouts CheckoutService, snapshots checkout.SnapshotRepository) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts, snapshots: snapshots}
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	// Fan-out plus upstream calls; give the whole attempt a generous cap.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	customerID := middleware.GetCustomerID(ctx)

	result, err := h.checkouts.Submit(ctx, userID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, checkout.ErrLoginRequired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"state": "login_required",
				"error": "log in to place an order",
			})
		case result != nil && result.Status == checkout.StatusFailedOrderCreation:
			// Order was not registered; the result still carries the
			// fallback WhatsApp link.
			writeJSON(w, http.StatusBadGateway, result)
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit order")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.snapshots.Get(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order snapshot")
		return
	}
	if len(lines) == 0 {
		writeError(w, http.StatusNotFound, "order snapshot not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orderId": orderID, "lines": lines})
}
