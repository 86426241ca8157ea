package repository

import (
	"context"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

// 管理者用の注文一覧の絞り込み
type AdminOrderListFilter struct {
	Skip   int
	Limit  int
	Status string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, skip int, limit int) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAll(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)
}
