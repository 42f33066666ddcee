package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type OrderHandler struct {
	orderSvc order.Service
}

func NewOrderHandler(orderSvc order.Service) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// HandleList returns orders for the admin console, newest first.
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter order.OrderFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.OrderStatus(s)
		filter.Status = &status
	}
	if s := r.URL.Query().Get("paymentStatus"); s != "" {
		ps := order.PaymentStatus(s)
		filter.PaymentStatus = &ps
	}

	limit := queryInt32(r, "limit", 20)
	page := queryInt32(r, "page", 1)

	orders, err := h.orderSvc.GetOrders(ctx, filter, limit, page)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}

	if orders == nil {
		orders = []*order.Order{}
	}
	utils.WriteJSON(w, orders, http.StatusOK)
}

func (h *OrderHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := r.PathValue("id")

	o, err := h.orderSvc.GetOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			utils.WriteJSONError(w, "Order not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("failed to get order", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, o, http.StatusOK)
}

type statusUpdateRequest struct {
	Status order.OrderStatus `json:"status"`
}

func (h *OrderHandler) HandleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := r.PathValue("id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orderSvc.UpdateOrderStatus(ctx, orderID, req.Status)
	if err != nil {
		h.writeUpdateError(ctx, w, err, "Failed to update order status")
		return
	}

	utils.WriteJSON(w, o, http.StatusOK)
}

type paymentStatusUpdateRequest struct {
	PaymentStatus order.PaymentStatus `json:"paymentStatus"`
}

// HandlePaymentStatusUpdate applies an admin payment transition. Marking
// PAID stamps paidAt and moves the order to DELIVERED, covering cash
// collected on delivery.
func (h *OrderHandler) HandlePaymentStatusUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := r.PathValue("id")

	var req paymentStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orderSvc.UpdatePaymentStatus(ctx, orderID, req.PaymentStatus)
	if err != nil {
		h.writeUpdateError(ctx, w, err, "Failed to update payment status")
		return
	}

	utils.WriteJSON(w, o, http.StatusOK)
}

func (h *OrderHandler) writeUpdateError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, order.ErrInvalidStatus):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "Order not found", http.StatusNotFound)
	default:
		logger.FromCtx(ctx).Error("order update failed", zap.Error(err))
		utils.WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.ParseInt(s, 10, 32); err == nil && n > 0 {
			return int32(n)
		}
	}
	return def
}
