package category

import (
	"context"
	"errors"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"go.uber.org/zap"
)

var ErrMissingName = errors.New("category name is required")

// Service defines the business logic for categories.
type Service interface {
	GetCategories(ctx context.Context) ([]*Category, error)
	AddCategory(ctx context.Context, name, slug string, description *string) (*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context) ([]*Category, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get categories", zap.Error(err))
		return nil, err
	}

	if len(categories) == 0 {
		return []*Category{}, nil
	}
	return categories, nil
}

func (s *service) AddCategory(ctx context.Context, name, slug string, description *string) (*Category, error) {
	if name == "" || slug == "" {
		return nil, ErrMissingName
	}

	c := &Category{
		Name:        name,
		Slug:        slug,
		Description: description,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCategory(ctx context.Context, c *Category) error {
	if c.Name == "" || c.Slug == "" {
		return ErrMissingName
	}
	return s.repo.Update(ctx, c)
}

func (s *service) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.repo.Delete(ctx, categoryID)
}
