package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"go.uber.org/zap"
)

const paystackBaseURL = "https://api.paystack.co"

type paystackGateway struct {
	secretKey   string
	callbackURL string
	baseURL     string
	httpClient  *http.Client
}

// NewPaystackGateway builds the Paystack client. An empty secret key is
// tolerated at construction so the server can boot without credentials,
// but every call fails fast with ErrNoSecretKey before touching the network.
func NewPaystackGateway(secretKey, callbackURL string) Gateway {
	if secretKey == "" {
		logger.L().Warn("Paystack secret key is empty")
	}

	return &paystackGateway{
		secretKey:   secretKey,
		callbackURL: callbackURL,
		baseURL:     paystackBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewPaystackGatewayWithBaseURL is used by tests to point the client at a
// stub server.
func NewPaystackGatewayWithBaseURL(secretKey, callbackURL, baseURL string) Gateway {
	g := NewPaystackGateway(secretKey, callbackURL).(*paystackGateway)
	g.baseURL = baseURL
	return g
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MinorUnits converts a major-unit amount to the gateway's smallest
// denomination. Rounding, not truncation: the charged amount must match
// the quoted total exactly.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *paystackGateway) Initialize(ctx context.Context, req InitRequest) (*InitResponse, error) {
	if g.secretKey == "" {
		return nil, ErrNoSecretKey
	}

	log := logger.FromCtx(ctx).With(
		zap.String("reference", req.Reference),
		zap.Float64("amount", req.Amount),
	)

	body := map[string]any{
		"email":        req.Email,
		"amount":       MinorUnits(req.Amount),
		"currency":     "GHS",
		"reference":    req.Reference,
		"callback_url": g.callbackURL,
		"metadata":     req.Metadata,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/transaction/initialize", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Info("initializing gateway transaction")

	env, err := g.do(httpReq)
	if err != nil {
		log.Error("gateway initialize failed", zap.Error(err))
		return nil, err
	}

	var res InitResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		log.Error("failed decoding gateway response", zap.Error(err))
		return nil, err
	}

	log.Info("gateway transaction initialized",
		zap.String("access_code", res.AccessCode),
	)

	return &res, nil
}

func (g *paystackGateway) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	if g.secretKey == "" {
		return nil, ErrNoSecretKey
	}

	log := logger.FromCtx(ctx).With(zap.String("reference", reference))

	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	env, err := g.do(httpReq)
	if err != nil {
		log.Error("gateway verify failed", zap.Error(err))
		return nil, err
	}

	var data VerifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Error("failed decoding verify response", zap.Error(err))
		return nil, err
	}

	log.Info("gateway transaction verified", zap.String("status", data.Status))
	return &data, nil
}

func (g *paystackGateway) do(req *http.Request) (*paystackEnvelope, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var env paystackEnvelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, fmt.Errorf("invalid gateway response: %s", string(bodyBytes))
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		return nil, fmt.Errorf("gateway error: %s", env.Message)
	}

	return &env, nil
}
