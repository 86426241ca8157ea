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

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) ListByProductID(ctx context.Context, productID int64, skip int, limit int) ([]model.Review, error) {
	args := m.Called(ctx, productID, skip, limit)
	list, _ := args.Get(0).([]model.Review)
	return list, args.Error(1)
}

func (m *ReviewRepoMock) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	args := m.Called(ctx, reviewID)
	rv, _ := args.Get(0).(model.Review)
	return rv, args.Error(1)
}

func (m *ReviewRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error) {
	args := m.Called(ctx, userID, productID)
	rv, _ := args.Get(0).(model.Review)
	return rv, args.Error(1)
}

func (m *ReviewRepoMock) Create(ctx context.Context, review model.Review) (model.Review, error) {
	args := m.Called(ctx, review)
	created, _ := args.Get(0).(model.Review)
	return created, args.Error(1)
}

func (m *ReviewRepoMock) Update(ctx context.Context, review model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepoMock) Delete(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

type ReviewProductRepoMock struct{ OrderProductRepoMock }

func activeProduct() model.Product {
	return model.Product{ID: 1, Name: "Oak Chair", Price: 1000, Stock: 5, IsActive: true}
}

func TestReviewUsecase_Create_Success(t *testing.T) {
	ctx := context.Background()

	products := new(ReviewProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(), nil)

	reviews := new(ReviewRepoMock)
	reviews.On("FindByUserAndProduct", mock.Anything, int64(7), int64(1)).Return(model.Review{}, repo.ErrNotFound)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(rv model.Review) bool {
		return rv.UserID == 7 && rv.ProductID == 1 && rv.Rating == 5
	})).Return(model.Review{ID: 40, UserID: 7, ProductID: 1, Rating: 5}, nil)

	uc := usecase.NewReviewUsecase(reviews, products)

	out, err := uc.Create(ctx, 7, 1, usecase.ReviewInput{Rating: 5, Comment: "solid"})
	assert.NoError(t, err)
	assert.Equal(t, int64(40), out.ID)
	reviews.AssertExpectations(t)
}

func TestReviewUsecase_Create_SecondReview_Conflict(t *testing.T) {
	ctx := context.Background()

	products := new(ReviewProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(), nil)

	reviews := new(ReviewRepoMock)
	reviews.On("FindByUserAndProduct", mock.Anything, int64(7), int64(1)).Return(model.Review{ID: 40}, nil)

	uc := usecase.NewReviewUsecase(reviews, products)

	_, err := uc.Create(ctx, 7, 1, usecase.ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, usecase.ErrConflict)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewUsecase_Create_RatingOutOfRange(t *testing.T) {
	uc := usecase.NewReviewUsecase(new(ReviewRepoMock), new(ReviewProductRepoMock))

	_, err := uc.Create(context.Background(), 7, 1, usecase.ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestReviewUsecase_Create_InactiveProduct_NotFound(t *testing.T) {
	products := new(ReviewProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsActive: false}, nil)

	uc := usecase.NewReviewUsecase(new(ReviewRepoMock), products)

	_, err := uc.Create(context.Background(), 7, 1, usecase.ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestReviewUsecase_Update_ForeignReview_NotFound(t *testing.T) {
	reviews := new(ReviewRepoMock)
	reviews.On("FindByID", mock.Anything, int64(40)).Return(model.Review{
		ID: 40, UserID: 99, ProductID: 1,
	}, nil)

	uc := usecase.NewReviewUsecase(reviews, new(ReviewProductRepoMock))

	_, err := uc.Update(context.Background(), 7, 1, 40, usecase.ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestReviewUsecase_Delete_AdminCanDeleteForeign(t *testing.T) {
	reviews := new(ReviewRepoMock)
	reviews.On("FindByID", mock.Anything, int64(40)).Return(model.Review{
		ID: 40, UserID: 99, ProductID: 1,
	}, nil)
	reviews.On("Delete", mock.Anything, int64(40)).Return(nil)

	uc := usecase.NewReviewUsecase(reviews, new(ReviewProductRepoMock))

	assert.NoError(t, uc.Delete(context.Background(), 7, true, 1, 40))
	reviews.AssertExpectations(t)
}
