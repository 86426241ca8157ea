package repository

import (
	"context"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64, skip int, limit int) ([]model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)

	//同一ユーザー・同一商品の既存レビューを探す
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error)

	Create(ctx context.Context, review model.Review) (model.Review, error)
	Update(ctx context.Context, review model.Review) error
	Delete(ctx context.Context, reviewID int64) error
}
