package product

import (
	"context"
	"strings"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, productID string, input UpdateProduct) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}

	return s.repo.GetList(ctx, opts)
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *service) Create(ctx context.Context, input NewProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	if input.Name == "" || input.Slug == "" || input.Price <= 0 {
		return nil, ErrMissingFields
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	isFeatured := false
	if input.IsFeatured != nil {
		isFeatured = *input.IsFeatured
	}

	var sku *string
	if input.SKU != nil {
		trimmed := strings.TrimSpace(*input.SKU)
		if trimmed != "" {
			sku = &trimmed
		}
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	p := &Product{
		Name:           input.Name,
		Slug:           input.Slug,
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		CostPrice:      input.CostPrice,
		SKU:            sku,
		Stock:          input.Stock,
		Images:         images,
		CategoryID:     input.CategoryID,
		IsActive:       isActive,
		IsFeatured:     isFeatured,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, productID string, input UpdateProduct) (*Product, error) {
	return s.repo.Update(ctx, productID, input)
}

func (s *service) Delete(ctx context.Context, productID string) error {
	return s.repo.Delete(ctx, productID)
}
