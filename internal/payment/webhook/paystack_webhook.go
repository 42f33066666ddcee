package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/metrics"
	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

const (
	signatureHeader = "x-paystack-signature"
	providerName    = "PAYSTACK"
	eventSuccess    = "charge.success"
)

// Event is the JSON envelope the gateway pushes.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	Reference string                 `json:"reference"`
	Amount    payment.Number         `json:"amount"`
	Customer  payment.VerifyCustomer `json:"customer"`
	Metadata  payment.OrderMetadata  `json:"metadata"`
}

type Handler struct {
	orderSvc order.Service
	payments payment.Repository
	secret   string
}

func NewWebhookHandler(orderSvc order.Service, payments payment.Repository, secret string) *Handler {
	return &Handler{
		orderSvc: orderSvc,
		payments: payments,
		secret:   secret,
	}
}

// HandleWebhook processes a gateway-pushed event. Deliveries are
// at-least-once: any recognized event is acknowledged with 200 so the
// gateway stops retrying, and the materialization idempotency guard makes
// redundant deliveries safe.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "PaymentWebhook"))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := payment.VerifySignature(h.secret, body, r.Header.Get(signatureHeader)); err != nil {
		metrics.WebhooksBadSig.Inc()
		log.Warn("invalid webhook signature")
		utils.WriteJSONError(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("event", event.Event),
		zap.String("reference", event.Data.Reference),
	)
	log.Info("webhook event received")

	if event.Event != eventSuccess {
		utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
		return
	}

	webhookID, processed, err := h.payments.SaveWebhookEvent(
		ctx, providerName, event.Event, event.Data.Reference, body, true,
	)
	if err != nil {
		log.Error("failed to record webhook event", zap.Error(err))
		utils.WriteJSONError(w, "webhook processing failed", http.StatusInternalServerError)
		return
	}
	if processed {
		log.Info("duplicate webhook delivery already processed")
		utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
		return
	}

	o, created, err := h.orderSvc.MaterializeFromPayment(
		ctx,
		event.Data.Reference,
		event.Data.Customer.Email,
		order.SourceWebhook,
		event.Data.Metadata,
	)
	if err != nil {
		if errors.Is(err, payment.ErrMalformedMetadata) {
			// Retries cannot fix a malformed payload; acknowledge and keep
			// the audit row for the operator.
			_ = h.payments.MarkWebhookFailed(ctx, webhookID, err.Error())
			log.Error("webhook metadata rejected", zap.Error(err))
			utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
			return
		}

		_ = h.payments.MarkWebhookFailed(ctx, webhookID, err.Error())
		log.Error("failed to materialize order from webhook", zap.Error(err))
		utils.WriteJSONError(w, "webhook processing failed", http.StatusInternalServerError)
		return
	}

	if err := h.payments.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}

	if created {
		log.Info("order created from webhook", zap.String("order_number", o.OrderNumber))
	}

	utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
}
