package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 受け付けるステータスか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// total_amountは作成時に確定し、以後変更しない。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	AddressID   int64       `gorm:"not null" json:"address_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
