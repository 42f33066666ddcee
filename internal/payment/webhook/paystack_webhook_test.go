package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceCODOrder(ctx context.Context, input order.CODInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) MaterializeFromPayment(ctx context.Context, reference, payerEmail, source string, meta payment.OrderMetadata) (*order.Order, bool, error) {
	args := m.Called(ctx, reference, payerEmail, source, meta)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*order.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderService) GetOrders(ctx context.Context, filter order.OrderFilter, limit, page int32) ([]*order.Order, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status order.OrderStatus) (*order.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, orderID string, status order.PaymentStatus) (*order.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SaveWebhookEvent(ctx context.Context, provider, eventType, reference string, payload json.RawMessage, signatureValid bool) (int64, bool, error) {
	args := m.Called(ctx, provider, eventType, reference, payload, signatureValid)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	args := m.Called(ctx, webhookID, reason)
	return args.Error(0)
}

// --- Helpers ---

const testSecret = "sk_test_secret"

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func chargeSuccessBody(t *testing.T, reference string) []byte {
	t.Helper()
	event := map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"reference": reference,
			"amount":    32500,
			"customer":  map[string]any{"email": "payer@example.com"},
			"metadata": map[string]any{
				"customerName":  "Ama Mensah",
				"customerPhone": "0244000000",
				"shipping":      map[string]any{"address": "12 Ring Rd", "city": "Accra"},
				"items": []map[string]any{
					{"productId": "prod-1", "quantity": "2", "price": "150.00"},
				},
				"paymentMethod": "card",
				"subtotal":      "300.00",
				"shippingCost":  "25.00",
				"total":         "325.00",
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func postWebhook(h *Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

// --- Tests ---

func TestHandleWebhook(t *testing.T) {
	t.Run("ChargeSuccessCreatesOrder", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")

		repo.On("SaveWebhookEvent", mock.Anything, "PAYSTACK", "charge.success", "PAY-1", json.RawMessage(body), true).
			Return(int64(7), false, nil)
		svc.On("MaterializeFromPayment", mock.Anything, "PAY-1", "payer@example.com", order.SourceWebhook,
			mock.MatchedBy(func(meta payment.OrderMetadata) bool {
				return meta.Total.Float64() == 325.0 && len(meta.Items) == 1
			})).
			Return(&order.Order{ID: "ord-1", OrderNumber: "ORD-1"}, true, nil)
		repo.On("MarkWebhookProcessed", mock.Anything, int64(7)).Return(nil)

		rec := postWebhook(h, body, sign(testSecret, body))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received": true}`, rec.Body.String())
		svc.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")
		rec := postWebhook(h, body, sign("sk_wrong_secret", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "SaveWebhookEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		svc.AssertNotCalled(t, "MaterializeFromPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingSignature", func(t *testing.T) {
		h := NewWebhookHandler(new(MockOrderService), new(MockPaymentRepository), testSecret)

		rec := postWebhook(h, chargeSuccessBody(t, "PAY-1"), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("TamperedBody", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewWebhookHandler(svc, new(MockPaymentRepository), testSecret)

		signature := sign(testSecret, chargeSuccessBody(t, "PAY-1"))
		tampered := chargeSuccessBody(t, "PAY-2")

		rec := postWebhook(h, tampered, signature)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "MaterializeFromPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("IrrelevantEventAcknowledged", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := []byte(`{"event": "transfer.success", "data": {"reference": "TRF-1"}}`)
		rec := postWebhook(h, body, sign(testSecret, body))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received": true}`, rec.Body.String())
		repo.AssertNotCalled(t, "SaveWebhookEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		svc.AssertNotCalled(t, "MaterializeFromPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ProcessedDuplicateShortCircuits", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")
		repo.On("SaveWebhookEvent", mock.Anything, "PAYSTACK", "charge.success", "PAY-1", json.RawMessage(body), true).
			Return(int64(7), true, nil)

		rec := postWebhook(h, body, sign(testSecret, body))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "MaterializeFromPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RetryAfterFailureReprocesses", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")
		signature := sign(testSecret, body)
		dbErr := errors.New("db error")

		// First delivery records the audit row but materialization fails.
		repo.On("SaveWebhookEvent", mock.Anything, "PAYSTACK", "charge.success", "PAY-1", json.RawMessage(body), true).
			Return(int64(7), false, nil).Once()
		svc.On("MaterializeFromPayment", mock.Anything, "PAY-1", "payer@example.com", order.SourceWebhook, mock.Anything).
			Return(nil, false, dbErr).Once()
		repo.On("MarkWebhookFailed", mock.Anything, int64(7), "db error").Return(nil).Once()

		rec := postWebhook(h, body, signature)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		// The gateway retries the same payload. The audit row exists but was
		// never processed, so the order must still be created.
		repo.On("SaveWebhookEvent", mock.Anything, "PAYSTACK", "charge.success", "PAY-1", json.RawMessage(body), true).
			Return(int64(7), false, nil).Once()
		svc.On("MaterializeFromPayment", mock.Anything, "PAY-1", "payer@example.com", order.SourceWebhook, mock.Anything).
			Return(&order.Order{ID: "ord-1", OrderNumber: "ORD-1"}, true, nil).Once()
		repo.On("MarkWebhookProcessed", mock.Anything, int64(7)).Return(nil).Once()

		rec = postWebhook(h, body, signature)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received": true}`, rec.Body.String())
		svc.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("MalformedMetadataAcknowledged", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")
		metaErr := payment.ErrMalformedMetadata

		repo.On("SaveWebhookEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(int64(7), false, nil)
		svc.On("MaterializeFromPayment", mock.Anything, "PAY-1", mock.Anything, order.SourceWebhook, mock.Anything).
			Return(nil, false, metaErr)
		repo.On("MarkWebhookFailed", mock.Anything, int64(7), metaErr.Error()).Return(nil)

		rec := postWebhook(h, body, sign(testSecret, body))

		// The gateway must not keep retrying a payload that can never
		// materialize.
		assert.Equal(t, http.StatusOK, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("MaterializationFailure", func(t *testing.T) {
		svc := new(MockOrderService)
		repo := new(MockPaymentRepository)
		h := NewWebhookHandler(svc, repo, testSecret)

		body := chargeSuccessBody(t, "PAY-1")
		dbErr := errors.New("db error")

		repo.On("SaveWebhookEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(int64(7), false, nil)
		svc.On("MaterializeFromPayment", mock.Anything, "PAY-1", mock.Anything, order.SourceWebhook, mock.Anything).
			Return(nil, false, dbErr)
		repo.On("MarkWebhookFailed", mock.Anything, int64(7), "db error").Return(nil)

		rec := postWebhook(h, body, sign(testSecret, body))

		// A transient failure gets a 5xx so the gateway retries later.
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		h := NewWebhookHandler(new(MockOrderService), new(MockPaymentRepository), testSecret)

		body := []byte(`{not json`)
		rec := postWebhook(h, body, sign(testSecret, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
