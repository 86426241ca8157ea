package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"-"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 管理者かどうか
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
