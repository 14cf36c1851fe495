package wallet

import (
	"context"
	"time"

	"campuspay/internal/models"
)

// Cache keys and durations
const (
	balanceCachePrefix = "wallet"
	balanceCacheTTL    = 5 * time.Minute
)

// History limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// Balance is the full set of currency balances for one account.
type Balance struct {
	Coins    int64 `json:"coins"`
	Crystals int64 `json:"crystals"`
	Karma    int64 `json:"karma"`
}

// TransferResult is returned by a successful transfer: the correlation
// reference shared by both ledger entries and the sender's updated
// balance in the transferred currency.
type TransferResult struct {
	Reference string `json:"reference"`
	Balance   int64  `json:"balance"`
}

// CurrencyTotals breaks an aggregate down per currency.
type CurrencyTotals struct {
	Coins    int64 `json:"coins"`
	Crystals int64 `json:"crystals"`
	Karma    int64 `json:"karma"`
}

// Stats are aggregated ledger totals for one account.
type Stats struct {
	TotalDeposits    CurrencyTotals `json:"total_deposits"`
	TotalWithdrawals CurrencyTotals `json:"total_withdrawals"`
	TotalTransfers   CurrencyTotals `json:"total_transfers"`
	TransactionCount int64          `json:"transaction_count"`
}

// Cache is the caching surface the service needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}

// Service defines the wallet operations exposed to handlers and to
// other backend services.
type Service interface {
	GetBalance(ctx context.Context, accountID uint) (*Balance, error)
	Credit(ctx context.Context, accountID uint, currency models.Currency, amount int64, source string) (int64, error)
	Debit(ctx context.Context, accountID uint, currency models.Currency, amount int64, source string) (int64, error)
	Transfer(ctx context.Context, fromID, toID uint, currency models.Currency, amount int64) (*TransferResult, error)
	History(ctx context.Context, accountID uint, limit int) ([]models.LedgerEntry, error)
	Stats(ctx context.Context, accountID uint) (*Stats, error)
}
