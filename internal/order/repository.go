package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByPaymentReference(ctx context.Context, reference string) (*Order, error)
	GetOrders(ctx context.Context, filter OrderFilter, limit, page int32) ([]*Order, error)
	GetOrderDetail(ctx context.Context, orderID string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID string, input PaymentStatusUpdate) error
}

// PaymentStatusUpdate is an admin-issued payment transition. StampPaidAt and
// ForceStatus carry the one-time paid transition side effects.
type PaymentStatusUpdate struct {
	PaymentStatus PaymentStatus
	StampPaidAt   bool
	ForceStatus   *OrderStatus
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx creates the order, its items, and all stock decrements in
// one atomic transaction. The UNIQUE constraint on payment_reference is the
// authoritative idempotency signal: an insert that conflicts reports
// ErrDuplicateReference and leaves the datastore untouched.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_number", o.OrderNumber),
		zap.Int("item_count", len(o.Items)),
	)

	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_id,
			shipping_name, shipping_email, shipping_phone,
			shipping_address, shipping_city, shipping_region,
			subtotal, shipping_cost, total,
			payment_method, payment_status, payment_reference, paid_at,
			status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (payment_reference) DO NOTHING
	`,
		o.ID, o.OrderNumber, o.CustomerID,
		o.ShippingName, o.ShippingEmail, o.ShippingPhone,
		o.ShippingAddress, o.ShippingCity, o.ShippingRegion,
		o.Subtotal, o.ShippingCost, o.Total,
		o.PaymentMethod, o.PaymentStatus, o.PaymentReference, o.PaidAt,
		o.Status, o.Notes,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Lost the materialization race; the winner's order stands.
		return ErrDuplicateReference
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = o.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`, item.ID, o.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		if err := product.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, product.ErrInsufficientStock) {
				log.Warn("insufficient stock, aborting order",
					zap.String("product_id", item.ProductID),
					zap.Int("quantity", item.Quantity),
				)
				return fmt.Errorf("product %s: %w", item.ProductID, product.ErrInsufficientStock)
			}
			log.Error("failed to decrement stock",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order committed", zap.String("order_id", o.ID))
	return nil
}

const orderColumns = `
	id, order_number, customer_id,
	shipping_name, shipping_email, shipping_phone,
	shipping_address, shipping_city, shipping_region,
	subtotal, shipping_cost, total,
	payment_method, payment_status, payment_reference, paid_at,
	status, notes, created_at, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingRegion,
		&o.Subtotal, &o.ShippingCost, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference, &o.PaidAt,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByPaymentReference returns (nil, nil) when no order carries the
// reference; absence is a normal state for the reconciliation engine.
func (r *repository) GetByPaymentReference(ctx context.Context, reference string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_reference = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetOrders(ctx context.Context, filter OrderFilter, limit, page int32) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrders"),
	)

	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.PaymentStatus != nil {
		query += fmt.Sprintf(" AND payment_status = $%d", argIndex)
		args = append(args, *filter.PaymentStatus)
		argIndex++
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return o, rows.Err()
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderID string, input PaymentStatusUpdate) error {
	query := `UPDATE orders SET payment_status = $1, updated_at = NOW()`
	args := []any{input.PaymentStatus}
	argIndex := 2

	if input.StampPaidAt {
		query += ", paid_at = NOW()"
	}
	if input.ForceStatus != nil {
		query += fmt.Sprintf(", status = $%d", argIndex)
		args = append(args, *input.ForceStatus)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, orderID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
