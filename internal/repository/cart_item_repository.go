package repository

import (
	"context"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error

	//ユーザーのカートを空にする（0件でもエラーにしない）
	DeleteByUserID(ctx context.Context, userID int64) error
}
