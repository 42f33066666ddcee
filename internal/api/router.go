package api

import (
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/middleware"
	"github.com/boypaida12/kidsjourneyhub/internal/payment/webhook"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"
)

type Handlers struct {
	Checkout *CheckoutHandler
	Payment  *PaymentHandler
	Webhook  *webhook.Handler
	Order    *OrderHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Auth     *AuthHandler
}

// NewRouter wires the public storefront surface and the session-gated
// admin back office.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, map[string]bool{"ok": true}, http.StatusOK)
	})

	// Storefront
	mux.HandleFunc("POST /checkout/cod", h.Checkout.HandleCOD)
	mux.HandleFunc("POST /payment/initialize", h.Payment.HandleInitialize)
	mux.HandleFunc("GET /payment/verify", h.Payment.HandleVerify)
	mux.HandleFunc("POST /payment/webhook", h.Webhook.HandleWebhook)
	mux.HandleFunc("GET /products", h.Product.HandleList)
	mux.HandleFunc("GET /products/{id}", h.Product.HandleDetail)
	mux.HandleFunc("GET /categories", h.Category.HandleList)

	// Session
	mux.HandleFunc("POST /auth/login", h.Auth.HandleLogin)

	// Admin back office
	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(fn)
	}
	mux.Handle("GET /orders", admin(h.Order.HandleList))
	mux.Handle("GET /orders/{id}", admin(h.Order.HandleDetail))
	mux.Handle("PUT /orders/{id}/status", admin(h.Order.HandleStatusUpdate))
	mux.Handle("PUT /orders/{id}/payment-status", admin(h.Order.HandlePaymentStatusUpdate))
	mux.Handle("POST /products", admin(h.Product.HandleCreate))
	mux.Handle("PUT /products/{id}", admin(h.Product.HandleUpdate))
	mux.Handle("DELETE /products/{id}", admin(h.Product.HandleDelete))
	mux.Handle("POST /categories", admin(h.Category.HandleCreate))
	mux.Handle("PUT /categories/{id}", admin(h.Category.HandleUpdate))
	mux.Handle("DELETE /categories/{id}", admin(h.Category.HandleDelete))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}
