package order

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

const (
	MethodMobileMoney = "momo"
	MethodCard        = "card"
	MethodCOD         = "cod"
)

// Order is the central entity. Shipping fields are a snapshot captured at
// order time and never re-read from the customer profile afterward:
// shipping details may legitimately differ from the stored profile.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	CustomerID  string `json:"customerId"`

	ShippingName    string  `json:"shippingName"`
	ShippingEmail   string  `json:"shippingEmail"`
	ShippingPhone   string  `json:"shippingPhone"`
	ShippingAddress string  `json:"shippingAddress"`
	ShippingCity    string  `json:"shippingCity"`
	ShippingRegion  *string `json:"shippingRegion,omitempty"`

	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Total        float64 `json:"total"`

	PaymentMethod    string        `json:"paymentMethod"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentReference *string       `json:"paymentReference,omitempty"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"`

	Status    OrderStatus `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the unit price at time of purchase; it is created
// atomically with its parent order and never mutated afterward.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"orderId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderFilter struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
}
