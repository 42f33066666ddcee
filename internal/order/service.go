package order

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/boypaida12/kidsjourneyhub/internal/customer"
	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/metrics"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

// CODThreshold caps cash-handling risk: cash on delivery is not offered at
// or above this amount (major currency units).
const CODThreshold = 200.0

// totalTolerance bounds acceptable float drift between the submitted total
// and subtotal + shipping.
const totalTolerance = 0.01

// TotalConsistent reports whether total agrees with subtotal + shippingCost
// within the accepted float drift.
func TotalConsistent(subtotal, shippingCost, total float64) bool {
	return math.Abs(subtotal+shippingCost-total) <= totalTolerance
}

// MaterializationSource labels which trigger won the race for a reference.
const (
	SourceWebhook  = "webhook"
	SourceFallback = "fallback"
)

type CODItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CODInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Shipping      payment.ShippingInfo
	Items         []CODItem
	Notes         *string
	Subtotal      float64
	ShippingCost  float64
	Total         float64
}

type Service interface {
	PlaceCODOrder(ctx context.Context, input CODInput) (*Order, error)
	MaterializeFromPayment(ctx context.Context, reference, payerEmail, source string, meta payment.OrderMetadata) (o *Order, created bool, err error)
	GetOrders(ctx context.Context, filter OrderFilter, limit, page int32) ([]*Order, error)
	GetOrderDetail(ctx context.Context, orderID string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) (*Order, error)
}

type service struct {
	repo      Repository
	customers customer.Repository
}

func NewService(repo Repository, customers customer.Repository) Service {
	return &service{
		repo:      repo,
		customers: customers,
	}
}

// PlaceCODOrder synchronously commits an order below the COD threshold
// without involving the payment gateway.
func (s *service) PlaceCODOrder(ctx context.Context, input CODInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceCODOrder"),
		zap.String("email", input.CustomerEmail),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if input.Total >= CODThreshold {
		log.Warn("order over COD threshold", zap.Float64("total", input.Total))
		return nil, ErrCODThreshold
	}
	if !TotalConsistent(input.Subtotal, input.ShippingCost, input.Total) {
		log.Warn("total mismatch",
			zap.Float64("subtotal", input.Subtotal),
			zap.Float64("shipping_cost", input.ShippingCost),
			zap.Float64("total", input.Total),
		)
		return nil, ErrTotalMismatch
	}
	for _, item := range input.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, ErrEmptyOrder
		}
	}

	cust, err := s.customers.FindOrCreate(ctx, input.CustomerEmail, input.CustomerName, input.CustomerPhone)
	if err != nil {
		return nil, err
	}

	o := &Order{
		OrderNumber:     utils.GenerateOrderNumber(),
		CustomerID:      cust.ID,
		ShippingName:    input.CustomerName,
		ShippingEmail:   input.CustomerEmail,
		ShippingPhone:   input.CustomerPhone,
		ShippingAddress: input.Shipping.Address,
		ShippingCity:    input.Shipping.City,
		ShippingRegion:  input.Shipping.Region,
		Subtotal:        input.Subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           input.Total,
		PaymentMethod:   MethodCOD,
		PaymentStatus:   PaymentPending,
		Status:          StatusPending,
		Notes:           input.Notes,
	}
	for _, item := range input.Items {
		o.Items = append(o.Items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	timer := metrics.StartTimer()
	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersCOD.Inc()
	log.Info("cod order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Duration("commit_duration", timer.Duration()),
	)
	return o, nil
}

// MaterializeFromPayment is the shared materialization procedure behind the
// webhook and verify-poll triggers. Exactly one order may exist per payment
// reference; whichever trigger commits first wins, and every later call
// short-circuits to the winner's order.
func (s *service) MaterializeFromPayment(
	ctx context.Context,
	reference, payerEmail, source string,
	meta payment.OrderMetadata,
) (*Order, bool, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MaterializeFromPayment"),
		zap.String("reference", reference),
		zap.String("source", source),
	)

	existing, err := s.repo.GetByPaymentReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		metrics.DuplicateHits.Inc()
		log.Info("order already materialized",
			zap.String("order_number", existing.OrderNumber),
		)
		return existing, false, nil
	}

	if err := meta.Validate(); err != nil {
		log.Error("rejecting malformed metadata", zap.Error(err))
		return nil, false, err
	}

	subtotal := meta.Subtotal.Float64()
	shippingCost := meta.ShippingCost.Float64()
	total := meta.Total.Float64()
	if !TotalConsistent(subtotal, shippingCost, total) {
		log.Error("metadata total mismatch",
			zap.Float64("subtotal", subtotal),
			zap.Float64("shipping_cost", shippingCost),
			zap.Float64("total", total),
		)
		return nil, false, ErrTotalMismatch
	}

	// The gateway's own customer record is authoritative here; the payer
	// email can differ from the one submitted at checkout.
	cust, err := s.customers.FindOrCreate(ctx, payerEmail, meta.CustomerName, meta.CustomerPhone)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	ref := reference
	o := &Order{
		OrderNumber:      utils.GenerateOrderNumber(),
		CustomerID:       cust.ID,
		ShippingName:     meta.CustomerName,
		ShippingEmail:    payerEmail,
		ShippingPhone:    meta.CustomerPhone,
		ShippingAddress:  meta.Shipping.Address,
		ShippingCity:     meta.Shipping.City,
		ShippingRegion:   meta.Shipping.Region,
		Subtotal:         subtotal,
		ShippingCost:     shippingCost,
		Total:            total,
		PaymentMethod:    meta.PaymentMethod,
		PaymentStatus:    PaymentPaid,
		PaymentReference: &ref,
		PaidAt:           &now,
		Status:           StatusProcessing,
		Notes:            meta.Notes,
	}
	for _, item := range meta.Items {
		o.Items = append(o.Items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity.Int(),
			Price:     item.Price.Float64(),
		})
	}

	timer := metrics.StartTimer()
	err = s.repo.CreateOrderTx(ctx, o)
	if errors.Is(err, ErrDuplicateReference) {
		// Lost the narrow race between the pre-check and the insert; the
		// constraint conflict is the authoritative signal, fall back to
		// the winner's row.
		metrics.DuplicateHits.Inc()
		winner, readErr := s.repo.GetByPaymentReference(ctx, reference)
		if readErr != nil {
			return nil, false, readErr
		}
		if winner == nil {
			return nil, false, err
		}
		log.Info("lost materialization race",
			zap.String("order_number", winner.OrderNumber),
		)
		return winner, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	switch source {
	case SourceWebhook:
		metrics.OrdersWebhook.Inc()
	case SourceFallback:
		metrics.OrdersFallback.Inc()
	}

	log.Info("order materialized from payment",
		zap.String("order_number", o.OrderNumber),
		zap.Duration("commit_duration", timer.Duration()),
	)
	return o, true, nil
}

func (s *service) GetOrders(ctx context.Context, filter OrderFilter, limit, page int32) ([]*Order, error) {
	return s.repo.GetOrders(ctx, filter, limit, page)
}

func (s *service) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetOrderDetail(ctx, orderID)
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	if !ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.repo.GetOrderDetail(ctx, orderID)
}

// UpdatePaymentStatus applies an admin transition. Marking PAID also stamps
// paidAt and forces the order to DELIVERED: cash orders are collected on
// delivery, so payment confirmation doubles as delivery confirmation.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) (*Order, error) {
	if !ValidPaymentStatus(status) {
		return nil, ErrInvalidStatus
	}

	input := PaymentStatusUpdate{PaymentStatus: status}
	if status == PaymentPaid {
		input.StampPaidAt = true
		delivered := StatusDelivered
		input.ForceStatus = &delivered
	}

	if err := s.repo.UpdatePaymentStatus(ctx, orderID, input); err != nil {
		return nil, err
	}
	return s.repo.GetOrderDetail(ctx, orderID)
}
