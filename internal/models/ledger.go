package models

import (
	"fmt"
	"time"
)

// Currency is one of the platform's virtual currencies.
type Currency string

const (
	CurrencyCoins    Currency = "coins"
	CurrencyCrystals Currency = "crystals"
	CurrencyKarma    Currency = "karma"
)

// ParseCurrency normalizes a currency name. The legacy alias "points"
// maps to karma; everything else must match the canonical enum.
func ParseCurrency(s string) (Currency, error) {
	switch s {
	case "coins":
		return CurrencyCoins, nil
	case "crystals":
		return CurrencyCrystals, nil
	case "karma", "points":
		return CurrencyKarma, nil
	default:
		return "", fmt.Errorf("unknown currency %q", s)
	}
}

// Ledger entry types
const (
	EntryTypeDeposit  = "deposit"
	EntryTypeWithdraw = "withdraw"
	EntryTypeTransfer = "transfer"
)

// Default source labels
const (
	SourceReward   = "reward"
	SourcePurchase = "purchase"
)

// LedgerEntry is an immutable record of a single balance-affecting
// event. Entries are created exactly once and never updated or deleted.
// A transfer writes two entries sharing the same Reference.
type LedgerEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	Type      string    `gorm:"not null" json:"type"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  Currency  `gorm:"not null" json:"currency"`
	Source    string    `json:"source"`
	Reference string    `gorm:"index" json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
