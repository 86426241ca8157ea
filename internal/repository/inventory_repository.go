package repository

import "context"

// 在庫台帳。stockの読み書きはここを通す。
type InventoryRepository interface {
	// 在庫が足りるときだけ減算する。足りなければfalse。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
