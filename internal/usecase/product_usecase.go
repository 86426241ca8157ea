package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Skip      int
	Limit     int
	Search    string
	Category  string
	MinPrice  *int64
	MaxPrice  *int64
	SortBy    string
	SortOrder string
}

type ProductOutput struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	SalePrice   *int64  `json:"sale_price"`
	Stock       int64   `json:"stock"`
	IsActive    bool    `json:"is_active"`
	CategoryIDs []int64 `json:"category_ids"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	if in.Skip < 0 {
		return nil, ErrValidation
	}
	if in.Limit < 1 || in.Limit > 100 {
		return nil, ErrValidation
	}
	if len(in.Search) > 100 {
		return nil, ErrValidation
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return nil, ErrValidation
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return nil, ErrValidation
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, ErrValidation
	}
	switch in.SortBy {
	case "", "created_at", "price", "name":
	default:
		return nil, ErrValidation
	}
	switch in.SortOrder {
	case "", "asc", "desc":
	default:
		return nil, ErrValidation
	}

	items, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Skip:         in.Skip,
		Limit:        in.Limit,
		Search:       strings.TrimSpace(in.Search),
		CategorySlug: strings.TrimSpace(in.Category),
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		SortBy:       in.SortBy,
		SortOrder:    in.SortOrder,
	})
	if err != nil {
		return nil, ErrInternal
	}

	outs := make([]ProductOutput, 0, len(items))
	for i := range items {
		out, err := u.toProductOutput(ctx, &items[i])
		if err != nil {
			return nil, ErrInternal
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, ErrValidation
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrNotFound
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}
	if !p.IsActive {
		return ProductOutput{}, ErrNotFound
	}

	return u.toProductOutput(ctx, &p)
}

// slugでの取得（公開のみ）
func (u *ProductUsecase) GetProductBySlug(ctx context.Context, slug string) (ProductOutput, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductOutput{}, ErrValidation
	}

	p, err := u.productRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrNotFound
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}
	if !p.IsActive {
		return ProductOutput{}, ErrNotFound
	}

	return u.toProductOutput(ctx, &p)
}

type AdminProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       int64
	SalePrice   *int64
	Stock       int64
	IsActive    bool
	CategoryIDs []int64
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (ProductOutput, error) {
	if adminUserID <= 0 {
		return ProductOutput{}, ErrUnauthorized
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	//slugは一意
	if _, err := u.productRepo.FindBySlug(ctx, in.Slug); err == nil {
		return ProductOutput{}, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrInternal
	}

	//カテゴリIDは全部実在していること
	if err := u.checkCategoryIDs(ctx, in.CategoryIDs); err != nil {
		return ProductOutput{}, err
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	if len(in.CategoryIDs) > 0 {
		if err := u.productRepo.ReplaceCategories(ctx, p.ID, in.CategoryIDs); err != nil {
			return ProductOutput{}, ErrInternal
		}
	}

	return u.toProductOutput(ctx, &p)
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (ProductOutput, error) {
	if adminUserID <= 0 {
		return ProductOutput{}, ErrUnauthorized
	}
	if productID <= 0 {
		return ProductOutput{}, ErrValidation
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrNotFound
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	//slugを変えるなら重複チェック
	if in.Slug != before.Slug {
		if _, err := u.productRepo.FindBySlug(ctx, in.Slug); err == nil {
			return ProductOutput{}, ErrConflict
		} else if !errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, ErrInternal
		}
	}

	if err := u.checkCategoryIDs(ctx, in.CategoryIDs); err != nil {
		return ProductOutput{}, err
	}

	updated := model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		UpdatedAt:   time.Now(),
	}
	if err := u.productRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, ErrNotFound
		}
		return ProductOutput{}, ErrInternal
	}

	if in.CategoryIDs != nil {
		if err := u.productRepo.ReplaceCategories(ctx, productID, in.CategoryIDs); err != nil {
			return ProductOutput{}, ErrInternal
		}
	}

	//在庫が変わったら監査ログ（UPDATE_STOCK）
	if before.Stock != in.Stock {
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, before.Stock),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, in.Stock),
			CreatedAt:    time.Now(),
		}); err != nil {
			return ProductOutput{}, ErrInternal
		}
	}

	return u.toProductOutput(ctx, &updated)
}

// 削除の代わりに非公開へ
func (u *ProductUsecase) AdminDeactivateProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return ErrUnauthorized
	}
	if productID <= 0 {
		return ErrValidation
	}

	err := u.productRepo.Deactivate(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}

// カテゴリ一覧（公開）
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	list, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return list, nil
}

type AdminCategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (u *ProductUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, in AdminCategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return model.Category{}, ErrValidation
	}

	if _, err := u.categoryRepo.FindBySlug(ctx, in.Slug); err == nil {
		return model.Category{}, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, ErrInternal
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
	})
	if err != nil {
		return model.Category{}, ErrInternal
	}
	return c, nil
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(in.Slug) == "" {
		return ErrValidation
	}
	if in.Price < 0 {
		return ErrValidation
	}
	if in.SalePrice != nil && *in.SalePrice < 0 {
		return ErrValidation
	}
	if in.Stock < 0 {
		return ErrValidation
	}
	return nil
}

func (u *ProductUsecase) checkCategoryIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := u.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return ErrInternal
	}
	if len(found) != len(ids) {
		return ErrValidation
	}
	return nil
}

func (u *ProductUsecase) toProductOutput(ctx context.Context, p *model.Product) (ProductOutput, error) {
	ids, err := u.productRepo.ListCategoryIDs(ctx, p.ID)
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CategoryIDs: ids,
	}, nil
}
