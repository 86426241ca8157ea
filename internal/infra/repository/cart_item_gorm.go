package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// ユーザーのカート明細を一覧取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, cartItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// (user, product)で既存明細を探す
func (r *CartItemGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーのカートを空にする。元から空でもエラーにしない。
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
