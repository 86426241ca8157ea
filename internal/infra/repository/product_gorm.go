package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開中の商品一覧。検索・カテゴリ・価格帯・ソート・ページング対応。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("products.is_active = ?", true)

	if q.CategorySlug != "" {
		tx = tx.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Joins("JOIN categories c ON c.id = pc.category_id").
			Where("c.slug = ?", q.CategorySlug)
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("products.name ILIKE ? OR products.description ILIKE ?", like, like)
	}

	if q.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *q.MaxPrice)
	}

	tx = tx.Order(orderClause(q.SortBy, q.SortOrder))

	var list []model.Product
	if err := tx.Offset(q.Skip).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// sort_by/sort_orderをSQLのORDER BYへ。未知の値はcreated_at descに落とす。
func orderClause(sortBy string, sortOrder string) string {
	col := "products.created_at"
	switch sortBy {
	case "price":
		col = "products.price"
	case "name":
		col = "products.name"
	}

	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Select("name", "slug", "description", "price", "sale_price", "stock", "is_active", "updated_at").
		Updates(&p)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 削除ではなく非公開にする
func (r *ProductGormRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリ紐付けを貼り替える（全削除→再作成）
func (r *ProductGormRepository) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}

		for _, cid := range categoryIDs {
			pc := model.ProductCategory{ProductID: productID, CategoryID: cid}
			if err := tx.Create(&pc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProductGormRepository) ListCategoryIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductCategory{}).
		Where("product_id = ?", productID).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
