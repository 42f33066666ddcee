package customer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	FindOrCreate(ctx context.Context, email, name, phone string) (*Customer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	query := `
		SELECT id, email, name, phone, created_at
		FROM customers
		WHERE email = $1
	`

	var c Customer
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, email, name, phone)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Email, c.Name, c.Phone)

	return err
}

// FindOrCreate looks a customer up by email and creates one on first order.
func (r *repository) FindOrCreate(ctx context.Context, email, name, phone string) (*Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindOrCreate"),
		zap.String("email", email),
	)

	existing, err := r.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		log.Error("failed to look up customer", zap.Error(err))
		return nil, err
	}

	c := &Customer{
		ID:    uuid.New().String(),
		Email: email,
		Name:  name,
		Phone: phone,
	}

	if err := r.Create(ctx, c); err != nil {
		// Lost a create race on the unique email: re-read the winner.
		if winner, readErr := r.GetByEmail(ctx, email); readErr == nil {
			return winner, nil
		}
		log.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	log.Debug("customer created")
	return c, nil
}
