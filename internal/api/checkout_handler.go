package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"
	"github.com/boypaida12/kidsjourneyhub/internal/product"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type CheckoutHandler struct {
	orderSvc order.Service
}

func NewCheckoutHandler(orderSvc order.Service) *CheckoutHandler {
	return &CheckoutHandler{orderSvc: orderSvc}
}

type codCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type codRequest struct {
	Customer     codCustomer          `json:"customer"`
	Shipping     payment.ShippingInfo `json:"shipping"`
	Items        []order.CODItem      `json:"items"`
	Notes        *string              `json:"notes"`
	Subtotal     float64              `json:"subtotal"`
	ShippingCost float64              `json:"shippingCost"`
	Total        float64              `json:"total"`
}

type codResponse struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

// HandleCOD commits a cash-on-delivery order synchronously, without
// involving the payment gateway.
func (h *CheckoutHandler) HandleCOD(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "CODCheckout"))

	var req codRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Customer.Email == "" || req.Customer.Name == "" {
		utils.WriteJSONError(w, "customer name and email are required", http.StatusBadRequest)
		return
	}

	o, err := h.orderSvc.PlaceCODOrder(ctx, order.CODInput{
		CustomerName:  req.Customer.Name,
		CustomerEmail: req.Customer.Email,
		CustomerPhone: req.Customer.Phone,
		Shipping:      req.Shipping,
		Items:         req.Items,
		Notes:         req.Notes,
		Subtotal:      req.Subtotal,
		ShippingCost:  req.ShippingCost,
		Total:         req.Total,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyOrder),
			errors.Is(err, order.ErrCODThreshold),
			errors.Is(err, order.ErrTotalMismatch),
			errors.Is(err, product.ErrInsufficientStock):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error("cod checkout failed", zap.Error(err))
			utils.WriteJSONError(w, "Failed to process order", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, codResponse{
		OrderNumber: o.OrderNumber,
		OrderID:     o.ID,
	}, http.StatusCreated)
}
