package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrAdminNotFound = errors.New("admin not found")

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Upsert(ctx context.Context, a *Admin) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM admins
		WHERE email = $1
	`, email).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Upsert(ctx context.Context, a *Admin) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = "ADMIN"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email)
		DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash
	`, a.ID, a.Email, a.Name, a.PasswordHash, a.Role)

	return err
}
