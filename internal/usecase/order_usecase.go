package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
}

func NewOrderUsecase(tx repo.TransactionManager, addresses repo.AddressRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, addresses: addresses}
}

type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	AddressID int64
	Items     []OrderItemInput
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	AddressID   int64             `json:"address_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// PlaceOrder は注文を作成する。
// 全明細の検証→在庫減算→注文作成→カートクリアを1トランザクションで行い、
// 途中で失敗したら在庫も注文も元に戻る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, ErrInvalidAddress
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, ErrValidation
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return OrderOutput{}, ErrValidation
		}
	}

	//address_idの存在確認＋所有チェック
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrInvalidAddress
	}
	if err != nil {
		return OrderOutput{}, ErrInternal
	}
	if addr.UserID != userID {
		return OrderOutput{}, ErrInvalidAddress
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//検証パス。1明細でも通らなければ在庫には一切触らない。
		orderItems := make([]model.OrderItem, 0, len(in.Items))
		var total int64 = 0

		for _, line := range in.Items {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return ErrInternal
			}
			if !p.IsActive {
				return ErrNotFound
			}

			if p.Stock < line.Quantity {
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   line.Quantity,
				}
			}

			//購入時点の価格・商品名をスナップショット
			price := p.EffectivePrice()
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           line.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   price,
				Quantity:            line.Quantity,
			})

			total += price * line.Quantity
		}

		//在庫減算。検証後に他のリクエストが在庫を取った場合はここで落ちてロールバック。
		for _, line := range in.Items {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return ErrInternal
			}
			if !ok {
				p, ferr := r.Products().FindByID(ctx, line.ProductID)
				if ferr != nil {
					return ErrInternal
				}
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   line.Quantity,
				}
			}
		}

		// 注文作成
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:      userID,
			AddressID:   in.AddressID,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return ErrInternal
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return ErrInternal
		}

		//注文成立時はカートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return ErrInternal
		}

		created := model.Order{
			ID:          orderID,
			UserID:      userID,
			AddressID:   in.AddressID,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
			CreatedAt:   now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧（新しい順・ページング）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, skip int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, ErrUnauthorized
	}
	if skip < 0 {
		return []OrderOutput{}, ErrValidation
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, ErrValidation
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID, skip, limit)
		if err != nil {
			return ErrInternal
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return ErrInternal
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細。一般ユーザーは自分の注文だけ、管理者は全件見える。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, isAdmin bool, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return ErrInternal
		}

		//他人の注文は「存在しない扱い」にする
		if !isAdmin && o.UserID != userID {
			return ErrNotFound
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return ErrInternal
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// CancelOrder は注文をキャンセルする。
// キャンセルできるのはpendingのときだけ。明細の数量ぶん在庫を戻す。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, isAdmin bool, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return ErrInternal
		}
		if !isAdmin && o.UserID != userID {
			return ErrNotFound
		}

		if o.Status != model.OrderStatusPending {
			return &InvalidTransitionError{Status: o.Status}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return ErrInternal
		}

		//在庫戻し。明細に記録した数量をそのまま戻す。
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return ErrInternal
		}
		for _, it := range items {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				return ErrInternal
			}
		}

		o.Status = model.OrderStatusCancelled
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		AddressID:   o.AddressID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
