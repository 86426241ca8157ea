package model

import "time"

// カートの明細
// (user, product)の組につき1行。同じ商品を追加したら数量を加算する。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_cart_user_product,unique" json:"user_id"`
	ProductID int64     `gorm:"not null;index:idx_cart_user_product,unique" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
