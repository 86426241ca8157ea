package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 住所を作成
func (r *addressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, err
	}
	return address, nil
}

// ユーザーの住所一覧を返す
func (r *addressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var list []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// 住所IDで1件取得
func (r *addressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address
	err := r.db.WithContext(ctx).First(&a, addressID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Address{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Address{}, err
	}
	return a, nil
}

// 住所を更新
func (r *addressGormRepository) Update(ctx context.Context, address model.Address) error {
	result := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ?", address.ID).
		Select(
			"line1",
			"line2",
			"city",
			"state",
			"postal_code",
			"country",
			"is_default",
			"updated_at",
		).
		Updates(&address)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 住所を削除
func (r *addressGormRepository) Delete(ctx context.Context, addressID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", addressID).
		Delete(&model.Address{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// keepAddressID以外のdefaultを全て降ろす（defaultはユーザーごとに1つ）
func (r *addressGormRepository) UnsetDefaultsExcept(ctx context.Context, userID int64, keepAddressID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = TRUE", userID, keepAddressID).
		Update("is_default", false).Error
}
