package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
)

type fakeDiscountService struct {
	applyFunc  func(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error)
	getFunc    func(ctx context.Context, userID string) (*discount.State, error)
	removeFunc func(ctx context.Context, userID string) error
}

func (f *fakeDiscountService) Apply(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error) {
	if f.applyFunc != nil {
		return f.applyFunc(ctx, userID, rawCode, c)
	}
	return &discount.State{Code: "SAVE10", Percent: 0.1, AppliedAt: time.Now()}, "applied", nil
}

func (f *fakeDiscountService) Get(ctx context.Context, userID string) (*discount.State, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, userID)
	}
	return nil, nil
}

func (f *fakeDiscountService) Remove(ctx context.Context, userID string) error {
	if f.removeFunc != nil {
		return f.removeFunc(ctx, userID)
	}
	return nil
}

func cartWithTotal() *fakeCartService {
	return &fakeCartService{getFunc: func(ctx context.Context, userID string) (*cart.Cart, error) {
		return &cart.Cart{UserID: userID, Lines: []cart.Line{
			{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 2},
		}}, nil
	}}
}

func TestApplyDiscount(t *testing.T) {
	t.Run("success includes discounted total", func(t *testing.T) {
		handler := NewDiscountHandler(&fakeDiscountService{}, cartWithTotal())
		r := httptest.NewRequest(http.MethodPost, "/api/cart/u1/discount", bytes.NewBufferString(`{"code":"SAVE10"}`))
		r.SetPathValue("userId", "u1")
		w := httptest.NewRecorder()

		handler.Apply(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp discountResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, 200.0, resp.Total)
		require.Equal(t, 180.0, resp.DiscountedTotal)
	})

	t.Run("promotional items excluded", func(t *testing.T) {
		svc := &fakeDiscountService{applyFunc: func(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error) {
			return nil, "", discount.ErrPromotionalItems
		}}
		handler := NewDiscountHandler(svc, cartWithTotal())
		r := httptest.NewRequest(http.MethodPost, "/api/cart/u1/discount", bytes.NewBufferString(`{"code":"SAVE10"}`))
		r.SetPathValue("userId", "u1")
		w := httptest.NewRecorder()

		handler.Apply(w, r)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "promotional")
	})

	t.Run("rejected code carries reason", func(t *testing.T) {
		svc := &fakeDiscountService{applyFunc: func(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error) {
			return nil, "", &discount.RejectedError{Reason: "code expired"}
		}}
		handler := NewDiscountHandler(svc, cartWithTotal())
		r := httptest.NewRequest(http.MethodPost, "/api/cart/u1/discount", bytes.NewBufferString(`{"code":"OLD"}`))
		r.SetPathValue("userId", "u1")
		w := httptest.NewRecorder()

		handler.Apply(w, r)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "code expired")
	})

	t.Run("empty code", func(t *testing.T) {
		svc := &fakeDiscountService{applyFunc: func(ctx context.Context, userID, rawCode string, c *cart.Cart) (*discount.State, string, error) {
			return nil, "", discount.ErrEmptyCode
		}}
		handler := NewDiscountHandler(svc, cartWithTotal())
		r := httptest.NewRequest(http.MethodPost, "/api/cart/u1/discount", bytes.NewBufferString(`{"code":""}`))
		r.SetPathValue("userId", "u1")
		w := httptest.NewRecorder()

		handler.Apply(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRemoveDiscount(t *testing.T) {
	handler := NewDiscountHandler(&fakeDiscountService{}, cartWithTotal())
	r := httptest.NewRequest(http.MethodDelete, "/api/cart/u1/discount", nil)
	r.SetPathValue("userId", "u1")
	w := httptest.NewRecorder()

	handler.Remove(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
}
