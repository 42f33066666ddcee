package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, productID string, input UpdateProduct) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

// execer lets the stock decrement run on either the pool or an open
// transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DecrementStock reduces stock only when enough remains, so concurrent
// orders for a low-stock product cannot drive it negative. It is the single
// oversell guard; order creation runs it inside the order transaction.
func DecrementStock(ctx context.Context, ex execer, productID string, qty int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.name, p.slug, p.description, p.price, p.compare_at_price,
	p.cost_price, p.sku, p.stock, p.images, p.category_id, c.name,
	p.is_active, p.is_featured, p.created_at, p.updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var images pq.StringArray
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CompareAtPrice,
		&p.CostPrice, &p.SKU, &p.Stock, &images, &p.CategoryID, &p.CategoryName,
		&p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return &p, nil
}

func (r *repository) GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetList"),
	)

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if opts.OnlyActive {
		query += " AND p.is_active = TRUE"
	}
	if opts.FeaturedOnly {
		query += " AND p.is_featured = TRUE"
	}
	if opts.CategoryID != nil && *opts.CategoryID != "" {
		query += fmt.Sprintf(" AND p.category_id = $%d", argIndex)
		args = append(args, *opts.CategoryID)
		argIndex++
	}

	query += " ORDER BY p.created_at DESC"

	limit := int32(50)
	page := int32(1)
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	if limit > 100 {
		limit = 100
	}
	if opts.Page > 0 {
		page = opts.Page
	}
	offset := (page - 1) * limit

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, slug, description, price, compare_at_price,
			cost_price, sku, stock, images, category_id, is_active, is_featured
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice,
		p.CostPrice, p.SKU, p.Stock, pq.Array(p.Images), p.CategoryID,
		p.IsActive, p.IsFeatured,
	)

	return err
}

func (r *repository) Update(ctx context.Context, productID string, input UpdateProduct) (*Product, error) {
	query := `UPDATE products SET updated_at = NOW()`
	args := []any{}
	argIndex := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.Slug != nil {
		set("slug", *input.Slug)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Price != nil {
		set("price", *input.Price)
	}
	if input.CompareAtPrice != nil {
		set("compare_at_price", *input.CompareAtPrice)
	}
	if input.CostPrice != nil {
		set("cost_price", *input.CostPrice)
	}
	if input.SKU != nil {
		set("sku", *input.SKU)
	}
	if input.Stock != nil {
		set("stock", *input.Stock)
	}
	if input.Images != nil {
		set("images", pq.Array(input.Images))
	}
	if input.CategoryID != nil {
		set("category_id", *input.CategoryID)
	}
	if input.IsActive != nil {
		set("is_active", *input.IsActive)
	}
	if input.IsFeatured != nil {
		set("is_featured", *input.IsFeatured)
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, productID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, productID)
}

func (r *repository) Delete(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
