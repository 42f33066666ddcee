package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	gateway  payment.Gateway
	orderSvc order.Service
}

func NewPaymentHandler(gateway payment.Gateway, orderSvc order.Service) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		orderSvc: orderSvc,
	}
}

type initializeRequest struct {
	Email         string                 `json:"email"`
	Amount        float64                `json:"amount"`
	CustomerName  string                 `json:"customerName"`
	CustomerPhone string                 `json:"customerPhone"`
	Shipping      payment.ShippingInfo   `json:"shipping"`
	Items         []payment.MetadataItem `json:"items"`
	PaymentMethod string                 `json:"paymentMethod"`
	Notes         *string                `json:"notes"`
	Subtotal      float64                `json:"subtotal"`
	ShippingCost  float64                `json:"shippingCost"`
}

type initializeResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// HandleInitialize opens a gateway transaction carrying the entire
// prospective order as metadata. No local order row exists until the
// gateway confirms payment.
func (h *PaymentHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "PaymentInitialize"))

	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Amount <= 0 {
		utils.WriteJSONError(w, "email and amount are required", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		utils.WriteJSONError(w, "no items in order", http.StatusBadRequest)
		return
	}
	// A mismatched total would be unmaterializable after capture, so it is
	// rejected before the shopper is ever charged.
	if !order.TotalConsistent(req.Subtotal, req.ShippingCost, req.Amount) {
		log.Warn("total mismatch",
			zap.Float64("subtotal", req.Subtotal),
			zap.Float64("shipping_cost", req.ShippingCost),
			zap.Float64("amount", req.Amount),
		)
		utils.WriteJSONError(w, "amount does not match subtotal plus shipping", http.StatusBadRequest)
		return
	}

	reference := utils.GeneratePaymentReference()

	meta := payment.OrderMetadata{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Shipping:      req.Shipping,
		Items:         req.Items,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Subtotal:      payment.Number(req.Subtotal),
		ShippingCost:  payment.Number(req.ShippingCost),
		Total:         payment.Number(req.Amount),
	}
	if err := meta.Validate(); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.gateway.Initialize(ctx, payment.InitRequest{
		Email:     req.Email,
		Amount:    req.Amount,
		Reference: reference,
		Metadata:  meta,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNoSecretKey) {
			log.Error("payment gateway not configured")
			utils.WriteJSONError(w, "payment gateway not configured", http.StatusInternalServerError)
			return
		}
		log.Error("gateway initialization failed", zap.Error(err))
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, initializeResponse{
		AuthorizationURL: res.AuthorizationURL,
		AccessCode:       res.AccessCode,
		Reference:        res.Reference,
	}, http.StatusOK)
}

type verifyResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Source      string `json:"source,omitempty"`
}

// HandleVerify is the client-side redirect-return poll. It races the
// webhook on the same reference; whichever trigger materializes the order
// first wins, and the response reports which one did.
func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "PaymentVerify"))

	reference := r.URL.Query().Get("reference")
	if reference == "" {
		utils.WriteJSONError(w, "No reference provided", http.StatusBadRequest)
		return
	}

	log = log.With(zap.String("reference", reference))

	data, err := h.gateway.Verify(ctx, reference)
	if err != nil {
		log.Error("gateway verification failed", zap.Error(err))
		utils.WriteJSON(w, verifyResponse{Success: false}, http.StatusOK)
		return
	}

	if !data.Success() {
		log.Info("transaction not successful", zap.String("status", data.Status))
		utils.WriteJSON(w, verifyResponse{Success: false}, http.StatusOK)
		return
	}

	o, created, err := h.orderSvc.MaterializeFromPayment(
		ctx, reference, data.Customer.Email, order.SourceFallback, data.Metadata,
	)
	if err != nil {
		log.Error("failed to materialize order from verify", zap.Error(err))
		utils.WriteJSON(w, verifyResponse{Success: false}, http.StatusInternalServerError)
		return
	}

	source := order.SourceWebhook
	if created {
		source = order.SourceFallback
	}

	utils.WriteJSON(w, verifyResponse{
		Success:     true,
		OrderNumber: o.OrderNumber,
		Source:      source,
	}, http.StatusOK)
}
