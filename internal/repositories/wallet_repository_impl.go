package repositories

import (
	"context"
	"fmt"

	"campuspay/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

// balanceColumn maps a currency to its accounts column. The currency
// enum is closed, so an unknown value is a programming error upstream.
func balanceColumn(currency models.Currency) (string, error) {
	switch currency {
	case models.CurrencyCoins:
		return "coins", nil
	case models.CurrencyCrystals:
		return "crystals", nil
	case models.CurrencyKarma:
		return "karma", nil
	default:
		return "", ErrUnknownCurrency
	}
}

func (r *walletRepository) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *walletRepository) CreditBalance(ctx context.Context, accountID uint, currency models.Currency, amount int64) (int64, error) {
	col, err := balanceColumn(currency)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrAccountNotFound
	}

	return r.balance(ctx, accountID, col)
}

func (r *walletRepository) DebitBalance(ctx context.Context, accountID uint, currency models.Currency, amount int64) (int64, error) {
	col, err := balanceColumn(currency)
	if err != nil {
		return 0, err
	}

	// Conditional decrement: the balance check and the write are one
	// statement, so concurrent debits cannot drive the balance negative.
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND "+col+" >= ?", accountID, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to debit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetAccount(ctx, accountID); err != nil {
			return 0, err
		}
		return 0, ErrInsufficientBalance
	}

	return r.balance(ctx, accountID, col)
}

func (r *walletRepository) balance(ctx context.Context, accountID uint, col string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Select(col).
		Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return value, nil
}

func (r *walletRepository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (r *walletRepository) GetHistory(ctx context.Context, accountID uint, limit int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	return entries, nil
}

func (r *walletRepository) GetStats(ctx context.Context, accountID uint) ([]LedgerAggregate, error) {
	var rows []LedgerAggregate
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("account_id = ?", accountID).
		Select("type, currency, COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Group("type, currency").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger stats: %w", err)
	}
	return rows, nil
}

func (r *walletRepository) ListEntries(ctx context.Context, filter LedgerFilter, limit, offset int) ([]models.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Currency != "" {
		query = query.Where("currency = ?", filter.Currency)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, total, nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}
