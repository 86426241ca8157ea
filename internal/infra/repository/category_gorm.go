package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type categoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) repo.CategoryRepository {
	return &categoryGormRepository{db: db}
}

func (r *categoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *categoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *categoryGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	var list []model.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, err
	}
	return c, nil
}
