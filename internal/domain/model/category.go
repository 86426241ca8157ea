package model

// 商品カテゴリ
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// productとcategoryの紐付け。暗黙のリレーションは使わず明示的に持つ。
type ProductCategory struct {
	ProductID  int64 `gorm:"primaryKey" json:"product_id"`
	CategoryID int64 `gorm:"primaryKey" json:"category_id"`
}
