package repository

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Skip         int
	Limit        int
	Search       string
	CategorySlug string
	MinPrice     *int64
	MaxPrice     *int64
	SortBy       string // created_at / price / name
	SortOrder    string // asc / desc
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error

	//削除の代わりに非公開へ
	Deactivate(ctx context.Context, id int64) error

	//カテゴリ紐付けの貼り替え
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	ListCategoryIDs(ctx context.Context, productID int64) ([]int64, error)
}
