package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// ユーザーの注文一覧（新しい順）
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, skip int, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// ステータスとupdated_atを更新
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 管理者用の一覧。statusが空なら全件。
func (r *OrderGormRepository) ListAll(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	tx := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	var orders []model.Order
	err := tx.
		Order("created_at desc").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
