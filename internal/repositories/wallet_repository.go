package repositories

import (
	"context"
	"errors"
	"time"

	"campuspay/internal/models"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownCurrency     = errors.New("unknown currency")
)

// LedgerAggregate is one row of the grouped stats query.
type LedgerAggregate struct {
	Type     string
	Currency models.Currency
	Total    int64
	Count    int64
}

// LedgerFilter narrows the admin ledger listing.
type LedgerFilter struct {
	AccountID uint
	Type      string
	Currency  string
	From      *time.Time
	To        *time.Time
}

// WalletRepository defines the database operations behind the wallet
// service. Balance mutations are single conditional statements so the
// insufficient-funds check cannot race with a concurrent debit.
type WalletRepository interface {
	GetAccount(ctx context.Context, id uint) (*models.Account, error)

	// CreditBalance increments a balance and returns the new value.
	CreditBalance(ctx context.Context, accountID uint, currency models.Currency, amount int64) (int64, error)

	// DebitBalance decrements a balance only if it holds at least
	// amount, returning ErrInsufficientBalance otherwise. No mutation
	// happens on failure.
	DebitBalance(ctx context.Context, accountID uint, currency models.Currency, amount int64) (int64, error)

	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	GetHistory(ctx context.Context, accountID uint, limit int) ([]models.LedgerEntry, error)
	GetStats(ctx context.Context, accountID uint) ([]LedgerAggregate, error)
	ListEntries(ctx context.Context, filter LedgerFilter, limit, offset int) ([]models.LedgerEntry, int64, error)

	// ExecuteInTransaction runs fn against a repository bound to a
	// single database transaction.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
