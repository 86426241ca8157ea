package model

import "time"

// 商品レビュー
// 同じ商品には1ユーザー1件まで。
type Review struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index" json:"user_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//1〜5の星評価
	Rating int `gorm:"not null" json:"rating"`

	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
