package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCategories(ctx context.Context) ([]*Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Category), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// --- Tests ---

func TestService_AddCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(nil)

		c, err := svc.AddCategory(ctx, "Clothing", "clothing", nil)
		assert.NoError(t, err)
		assert.Equal(t, "Clothing", c.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingName", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddCategory(ctx, "", "clothing", nil)
		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("MissingSlug", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddCategory(ctx, "Clothing", "", nil)
		assert.ErrorIs(t, err, ErrMissingName)
	})
}

func TestService_GetCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyIsSlice", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetCategories", ctx).Return([]*Category(nil), nil)

		res, err := svc.GetCategories(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetCategories", ctx).Return(nil, errors.New("db error"))

		_, err := svc.GetCategories(ctx)
		assert.Error(t, err)
	})
}

func TestService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("InUse", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("Delete", ctx, "cat-1").Return(ErrCategoryInUse)

		assert.ErrorIs(t, svc.DeleteCategory(ctx, "cat-1"), ErrCategoryInUse)
	})
}
