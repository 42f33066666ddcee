package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, productID string, input UpdateProduct) (*Product, error) {
	args := m.Called(ctx, productID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		var captured *Product
		mockRepo.On("Create", ctx, mock.AnythingOfType("*product.Product")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*Product) }).
			Return(nil)

		p, err := svc.Create(ctx, NewProduct{
			Name:  "Baby Romper",
			Slug:  "baby-romper",
			Price: 75,
			Stock: 10,
		})
		require.NoError(t, err)
		require.NotNil(t, captured)

		assert.True(t, p.IsActive)
		assert.False(t, p.IsFeatured)
		assert.NotNil(t, p.Images)
		assert.Empty(t, p.Images)
	})

	t.Run("TrimsSKU", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil)

		sku := "  SKU-001  "
		p, err := svc.Create(ctx, NewProduct{Name: "x", Slug: "x", Price: 1, SKU: &sku})
		require.NoError(t, err)
		require.NotNil(t, p.SKU)
		assert.Equal(t, "SKU-001", *p.SKU)
	})

	t.Run("BlankSKUDropped", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil)

		sku := "   "
		p, err := svc.Create(ctx, NewProduct{Name: "x", Slug: "x", Price: 1, SKU: &sku})
		require.NoError(t, err)
		assert.Nil(t, p.SKU)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		_, err := svc.Create(ctx, NewProduct{Name: "", Slug: "x", Price: 1})
		assert.ErrorIs(t, err, ErrMissingFields)

		_, err = svc.Create(ctx, NewProduct{Name: "x", Slug: "x", Price: 0})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestService_GetList(t *testing.T) {
	ctx := context.Background()

	t.Run("ClampsPaging", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetList", ctx, ProductQueryOptions{Limit: 100, Page: 1}).
			Return([]*Product{}, nil)

		_, err := svc.GetList(ctx, ProductQueryOptions{Limit: 500, Page: -1})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Defaults", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetList", ctx, ProductQueryOptions{Limit: 50, Page: 1}).
			Return([]*Product{}, nil)

		_, err := svc.GetList(ctx, ProductQueryOptions{})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
