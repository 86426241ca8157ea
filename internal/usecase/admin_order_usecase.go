package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 全注文の一覧（ステータス絞り込みは任意）
func (u *AdminOrderUsecase) ListAll(ctx context.Context, skip int, limit int, status string) ([]OrderOutput, error) {
	if skip < 0 {
		return []OrderOutput{}, ErrValidation
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, ErrValidation
	}
	if status != "" && !model.OrderStatus(status).Valid() {
		return []OrderOutput{}, ErrValidation
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx, repo.AdminOrderListFilter{
			Skip:   skip,
			Limit:  limit,
			Status: status,
		})
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

// UpdateStatus は管理者による注文ステータス変更。
// cancelledへ変える時は在庫を全明細ぶん戻し、cancelledから戻す時は
// 全明細ぶん再度引き当てる。引き当てできなければ全体を失敗させて
// ステータスは変えない。それ以外の遷移は在庫に触らない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation
	}

	newStatus := model.OrderStatus(in.Status)
	if !newStatus.Valid() {
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

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return ErrInternal
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			out = toOrderOutput(o, items)
			return nil
		}

		//cancelledへ: 在庫戻し
		if newStatus == model.OrderStatusCancelled {
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return ErrInternal
				}
			}
		}

		//cancelledから復帰: 在庫を取り直す。1明細でも足りなければ全体を失敗させる。
		if o.Status == model.OrderStatusCancelled {
			for _, it := range items {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return ErrInternal
				}
				if !ok {
					p, ferr := r.Products().FindByID(ctx, it.ProductID)
					if ferr != nil {
						return ErrInternal
					}
					return &InsufficientStockError{
						ProductName: p.Name,
						Available:   p.Stock,
						Requested:   it.Quantity,
					}
				}
			}
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			return ErrInternal
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return ErrInternal
		}

		o.Status = newStatus
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
