package usecase

import (
	"context"
	"errors"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は(user, product)で1行。同じ商品の追加は数量加算になる。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// price は現在の実効価格（セール中ならセール価格）。
type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrUnauthorized
	}

	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 追加後の明細を返す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, ErrUnauthorized
	}
	if in.ProductID <= 0 {
		return CartItemResponse{}, ErrValidation
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, ErrValidation
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, ErrNotFound
	}
	if err != nil {
		return CartItemResponse{}, ErrInternal
	}
	if !p.IsActive {
		return CartItemResponse{}, ErrNotFound
	}

	// 既存明細があれば加算。無ければ新規。
	existing, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, ErrInternal
	}

	if err == nil {
		newQty := existing.Quantity + in.Quantity
		if newQty > p.Stock {
			return CartItemResponse{}, &InsufficientStockError{
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   newQty,
			}
		}

		if err := u.cartItemRepo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
			return CartItemResponse{}, ErrInternal
		}
		existing.Quantity = newQty
		return toCartItemResponse(existing, &p), nil
	}

	if in.Quantity > p.Stock {
		return CartItemResponse{}, &InsufficientStockError{
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   in.Quantity,
		}
	}

	created, err := u.cartItemRepo.Create(ctx, model.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return CartItemResponse{}, ErrInternal
	}

	return toCartItemResponse(created, &p), nil
}

// 数量変更（所有チェック＋在庫チェック）。上書きであって加算ではない。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, ErrUnauthorized
	}
	if cartItemID <= 0 {
		return CartItemResponse{}, ErrValidation
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, ErrValidation
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, ErrNotFound
	}
	if err != nil {
		return CartItemResponse{}, ErrInternal
	}

	//他人の明細は「存在しない扱い」
	if item.UserID != userID {
		return CartItemResponse{}, ErrNotFound
	}

	//商品の在庫チェック
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, ErrNotFound
	}
	if err != nil {
		return CartItemResponse{}, ErrInternal
	}
	if !p.IsActive {
		return CartItemResponse{}, ErrNotFound
	}
	if in.Quantity > p.Stock {
		return CartItemResponse{}, &InsufficientStockError{
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   in.Quantity,
		}
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemResponse{}, ErrNotFound
		}
		return CartItemResponse{}, ErrInternal
	}

	item.Quantity = in.Quantity
	return toCartItemResponse(item, &p), nil
}

// 明細削除
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if cartItemID <= 0 {
		return ErrValidation
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if item.UserID != userID {
		return ErrNotFound
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

// カートを空にする。空のカートに対しても成功する。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}

	if err := u.cartItemRepo.DeleteByUserID(ctx, userID); err != nil {
		return ErrInternal
	}
	return nil
}

// userIDの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, ErrInternal
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		if !p.IsActive {
			continue
		}

		respItems = append(respItems, toCartItemResponse(it, &p))
		total += p.EffectivePrice() * it.Quantity
	}

	return CartResponse{Items: respItems, Total: total}, nil
}

func toCartItemResponse(it model.CartItem, p *model.Product) CartItemResponse {
	return CartItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      p.Name,
		Price:     p.EffectivePrice(),
		Quantity:  it.Quantity,
	}
}
