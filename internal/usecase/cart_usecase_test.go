package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(model.CartItem)
	return created, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type CartProductRepoMock struct{ OrderProductRepoMock }

func TestCartUsecase_AddToCart_NewItem(t *testing.T) {
	ctx := context.Background()

	products := new(CartProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Oak Chair", Price: 1000, Stock: 5, IsActive: true,
	}, nil)

	cartItems := new(CartItemRepoMock)
	cartItems.On("FindByUserAndProduct", mock.Anything, int64(7), int64(1)).Return(model.CartItem{}, repo.ErrNotFound)
	cartItems.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.UserID == 7 && it.ProductID == 1 && it.Quantity == 2
	})).Return(model.CartItem{ID: 50, UserID: 7, ProductID: 1, Quantity: 2}, nil)

	uc := usecase.NewCartUsecase(cartItems, products)

	out, err := uc.AddToCart(ctx, 7, usecase.AddCartInput{ProductID: 1, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(50), out.ID)
	assert.Equal(t, int64(2), out.Quantity)
	assert.Equal(t, int64(1000), out.Price)
	cartItems.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_MergesSameProduct(t *testing.T) {
	ctx := context.Background()

	products := new(CartProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Oak Chair", Price: 1000, Stock: 5, IsActive: true,
	}, nil)

	cartItems := new(CartItemRepoMock)
	cartItems.On("FindByUserAndProduct", mock.Anything, int64(7), int64(1)).Return(model.CartItem{
		ID: 50, UserID: 7, ProductID: 1, Quantity: 2,
	}, nil)
	//加算であって上書きではない
	cartItems.On("UpdateQuantity", mock.Anything, int64(50), int64(3)).Return(nil)

	uc := usecase.NewCartUsecase(cartItems, products)

	out, err := uc.AddToCart(ctx, 7, usecase.AddCartInput{ProductID: 1, Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.Quantity)
	cartItems.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_MergedQuantityExceedsStock(t *testing.T) {
	ctx := context.Background()

	products := new(CartProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Oak Chair", Price: 1000, Stock: 3, IsActive: true,
	}, nil)

	cartItems := new(CartItemRepoMock)
	cartItems.On("FindByUserAndProduct", mock.Anything, int64(7), int64(1)).Return(model.CartItem{
		ID: 50, UserID: 7, ProductID: 1, Quantity: 2,
	}, nil)

	uc := usecase.NewCartUsecase(cartItems, products)

	_, err := uc.AddToCart(ctx, 7, usecase.AddCartInput{ProductID: 1, Quantity: 2})

	ise, ok := usecase.AsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, "Oak Chair", ise.ProductName)
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(4), ise.Requested)
	cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InactiveProduct(t *testing.T) {
	ctx := context.Background()

	products := new(CartProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Old Chair", IsActive: false,
	}, nil)

	uc := usecase.NewCartUsecase(new(CartItemRepoMock), products)

	_, err := uc.AddToCart(ctx, 7, usecase.AddCartInput{ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCartUsecase_UpdateCartItem_ForeignItem_NotFound(t *testing.T) {
	ctx := context.Background()

	cartItems := new(CartItemRepoMock)
	cartItems.On("FindByID", mock.Anything, int64(50)).Return(model.CartItem{
		ID: 50, UserID: 99, ProductID: 1, Quantity: 2,
	}, nil)

	uc := usecase.NewCartUsecase(cartItems, new(CartProductRepoMock))

	_, err := uc.UpdateCartItem(ctx, 7, 50, usecase.UpdateCartItemInput{Quantity: 1})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCartUsecase_GetCart_TotalUsesSalePrice(t *testing.T) {
	ctx := context.Background()

	sale := int64(800)

	cartItems := new(CartItemRepoMock)
	cartItems.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 50, UserID: 7, ProductID: 1, Quantity: 2},
		{ID: 51, UserID: 7, ProductID: 2, Quantity: 1},
	}, nil)

	products := new(CartProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Sale Chair", Price: 1000, SalePrice: &sale, Stock: 5, IsActive: true,
	}, nil)
	products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{
		ID: 2, Name: "Oak Table", Price: 2000, Stock: 3, IsActive: true,
	}, nil)

	uc := usecase.NewCartUsecase(cartItems, products)

	out, err := uc.GetCart(ctx, 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	//800*2 + 2000*1
	assert.Equal(t, int64(3600), out.Total)
	assert.Equal(t, int64(800), out.Items[0].Price)
}

func TestCartUsecase_ClearCart_EmptyCartSucceeds(t *testing.T) {
	ctx := context.Background()

	cartItems := new(CartItemRepoMock)
	cartItems.On("DeleteByUserID", mock.Anything, int64(7)).Return(nil)

	uc := usecase.NewCartUsecase(cartItems, new(CartProductRepoMock))

	assert.NoError(t, uc.ClearCart(ctx, 7))
	cartItems.AssertExpectations(t)
}

func TestCartUsecase_RemoveCartItem_Missing_NotFound(t *testing.T) {
	ctx := context.Background()

	cartItems := new(CartItemRepoMock)
	cartItems.On("FindByID", mock.Anything, int64(50)).Return(model.CartItem{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(cartItems, new(CartProductRepoMock))

	err := uc.RemoveCartItem(ctx, 7, 50)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
