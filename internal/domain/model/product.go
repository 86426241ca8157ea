package model

import (
	"time"

	"gorm.io/gorm"
)

// 金額は全てセント単位のint64で持つ
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`

	//セール価格（無ければnull）
	SalePrice *int64 `gorm:"column:sale_price" json:"sale_price"`

	Stock     int64          `gorm:"not null" json:"stock"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 注文・カートで使う価格。セール価格があればそちらを優先する。
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
