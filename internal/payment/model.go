package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Number is a float currency amount that the gateway may echo back either
// as a JSON number or as a string. Coercion here is required, not optional:
// metadata round-trips through the gateway's loosely-typed store.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return errors.New("empty numeric value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 { return float64(n) }

// Quantity is a positive integer count tolerating string or number encoding.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*q = Quantity(int(n))
	return nil
}

func (q Quantity) Int() int { return int(q) }

type ShippingInfo struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Region  *string `json:"region,omitempty"`
}

type MetadataItem struct {
	ProductID string   `json:"productId"`
	Quantity  Quantity `json:"quantity"`
	Price     Number   `json:"price"`
	Name      string   `json:"name,omitempty"`
}

// OrderMetadata is the entire prospective order embedded at initialize time
// and echoed back by the gateway in both the webhook event and the verify
// response. It is the only durable pre-payment state the engine keeps.
type OrderMetadata struct {
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Shipping      ShippingInfo   `json:"shipping"`
	Items         []MetadataItem `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
	Notes         *string        `json:"notes,omitempty"`
	Subtotal      Number         `json:"subtotal"`
	ShippingCost  Number         `json:"shippingCost"`
	Total         Number         `json:"total"`
}

var (
	ErrMalformedMetadata = errors.New("malformed order metadata")
	ErrNoSecretKey       = errors.New("payment gateway secret key not configured")
)

// Validate fails fast on metadata that cannot materialize a well-formed
// order, instead of letting garbage reach the datastore.
func (m *OrderMetadata) Validate() error {
	if len(m.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrMalformedMetadata)
	}
	for i, item := range m.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item %d has no product id", ErrMalformedMetadata, i)
		}
		if item.Quantity.Int() <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", ErrMalformedMetadata, i)
		}
	}
	if m.Shipping.Address == "" || m.Shipping.City == "" {
		return fmt.Errorf("%w: missing shipping address", ErrMalformedMetadata)
	}
	if m.Total.Float64() <= 0 {
		return fmt.Errorf("%w: non-positive total", ErrMalformedMetadata)
	}
	if m.PaymentMethod == "" {
		return fmt.Errorf("%w: missing payment method", ErrMalformedMetadata)
	}
	return nil
}

// InitRequest carries everything needed to open a gateway transaction.
type InitRequest struct {
	Email     string
	Amount    float64 // major currency units
	Reference string
	Metadata  OrderMetadata
}

type InitResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyCustomer struct {
	Email string `json:"email"`
}

// VerifyData is the gateway's view of a transaction.
type VerifyData struct {
	Status    string         `json:"status"`
	Reference string         `json:"reference"`
	Amount    Number         `json:"amount"` // minor units
	Customer  VerifyCustomer `json:"customer"`
	Metadata  OrderMetadata  `json:"metadata"`
}

// Success reports whether the gateway has confirmed the charge.
func (d *VerifyData) Success() bool {
	return d.Status == "success"
}
