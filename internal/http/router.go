package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andeshop/storefront-go/internal/checkout"
	"github.com/andeshop/storefront-go/internal/middleware"
	"github.com/andeshop/storefront-go/internal/recovery"
)

type RouterDeps struct {
	Carts     CartService
	Discounts DiscountService
	Checkouts CheckoutService
	Snapshots checkout.SnapshotRepository
	Catalog   CatalogAPI
	Admin     AdminAPI
	Recovery  *recovery.Service

	JWTSecret        []byte
	CORSAllowOrigins []string
	Logger           zerolog.Logger
}

const recoveryStartPath = "/api/recovery/start"

func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	cartHandler := NewCartHandler(deps.Carts)
	mux.HandleFunc("GET /api/cart/{userId}", cartHandler.GetCart)
	mux.HandleFunc("POST /api/cart/{userId}/items", cartHandler.AddItem)
	mux.HandleFunc("POST /api/cart/{userId}/items/{productId}/increase", cartHandler.IncreaseItem)
	mux.HandleFunc("POST /api/cart/{userId}/items/{productId}/decrease", cartHandler.DecreaseItem)
	mux.HandleFunc("DELETE /api/cart/{userId}/items/{productId}", cartHandler.RemoveItem)
	mux.HandleFunc("DELETE /api/cart/{userId}", cartHandler.ClearCart)

	discountHandler := NewDiscountHandler(deps.Discounts, deps.Carts)
	mux.HandleFunc("GET /api/cart/{userId}/discount", discountHandler.Get)
	mux.HandleFunc("POST /api/cart/{userId}/discount", discountHandler.Apply)
	mux.HandleFunc("DELETE /api/cart/{userId}/discount", discountHandler.Remove)

	checkoutHandler := NewCheckoutHandler(deps.Checkouts, deps.Snapshots)
	mux.HandleFunc("POST /api/cart/{userId}/checkout", checkoutHandler.Submit)
	mux.HandleFunc("GET /api/orders/{orderId}/snapshot", checkoutHandler.GetSnapshot)

	catalogHandler := NewCatalogHandler(deps.Catalog)
	mux.HandleFunc("GET /api/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/products/slug/{slug}", catalogHandler.GetProductBySlug)
	mux.HandleFunc("GET /api/products/category/{slug}", catalogHandler.ProductsByCategory)
	mux.HandleFunc("GET /api/categories", catalogHandler.ListCategories)

	adminHandler := NewAdminHandler(deps.Admin)
	mux.HandleFunc("POST /api/admin/categories", adminHandler.CreateCategory)
	mux.HandleFunc("PUT /api/admin/categories/{id}", adminHandler.UpdateCategory)
	mux.HandleFunc("DELETE /api/admin/categories/{id}", adminHandler.DeleteCategory)

	recoveryHandler := NewRecoveryHandler(deps.Recovery)
	mux.HandleFunc("POST /api/recovery/{userId}/start", recoveryHandler.Start)
	mux.Handle("POST /api/recovery/{userId}/reset",
		deps.Recovery.Guard(recoveryStartPath)(http.HandlerFunc(recoveryHandler.Reset)))

	var handler http.Handler = mux
	handler = middleware.CustomerID(deps.JWTSecret)(handler)
	handler = middleware.Recover(deps.Logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = middleware.CORS(deps.CORSAllowOrigins)(handler)
	return handler
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]string{"status": "ok", "service": "storefront"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
