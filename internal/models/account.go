package models

import "time"

// Account roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account is a platform user together with their currency balances.
// Balances are stored redundantly for fast reads; the ledger is the
// source of truth for how they got there.
type Account struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:'student'" json:"role"`
	Coins        int64     `gorm:"not null;default:0" json:"coins"`
	Crystals     int64     `gorm:"not null;default:0" json:"crystals"`
	Karma        int64     `gorm:"not null;default:0" json:"karma"`
	TokenVersion int       `gorm:"default:1" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
