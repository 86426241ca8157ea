package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type reviewGormRepository struct {
	db *gorm.DB
}

// DI
func NewReviewGormRepository(db *gorm.DB) repo.ReviewRepository {
	return &reviewGormRepository{db: db}
}

// 商品のレビュー一覧（新しい順）
func (r *reviewGormRepository) ListByProductID(ctx context.Context, productID int64, skip int, limit int) ([]model.Review, error) {
	var list []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reviewGormRepository) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).First(&rv, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *reviewGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *reviewGormRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *reviewGormRepository) Update(ctx context.Context, review model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Select("rating", "comment", "updated_at").
		Updates(&review)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *reviewGormRepository) Delete(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, reviewID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
