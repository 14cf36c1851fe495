package wallet

import (
	"context"
	"errors"
	"fmt"

	"campuspay/internal/models"
	"campuspay/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	repo  repositories.WalletRepository
	cache Cache
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) GetBalance(ctx context.Context, accountID uint) (*Balance, error) {
	key := s.cache.GenerateKey(balanceCachePrefix, "balance", accountID)

	var cached Balance
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	balance := &Balance{
		Coins:    account.Coins,
		Crystals: account.Crystals,
		Karma:    account.Karma,
	}
	if err := s.cache.SetWithTTL(ctx, key, balance, balanceCacheTTL); err != nil {
		logrus.WithError(err).Warn("failed to cache balance")
	}
	return balance, nil
}

func (s *service) Credit(ctx context.Context, accountID uint, currency models.Currency, amount int64, source string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if source == "" {
		source = models.SourceReward
	}

	var newBalance int64
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		var err error
		newBalance, err = tx.CreditBalance(ctx, accountID, currency, amount)
		if err != nil {
			return err
		}
		return tx.CreateEntry(ctx, &models.LedgerEntry{
			AccountID: accountID,
			Type:      models.EntryTypeDeposit,
			Amount:    amount,
			Currency:  currency,
			Source:    source,
		})
	})
	if err != nil {
		return 0, mapRepoError(err)
	}

	s.invalidateBalance(ctx, accountID)
	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount,
		"currency":   currency,
		"source":     source,
		"type":       models.EntryTypeDeposit,
	}).Info("balance credited")

	return newBalance, nil
}

func (s *service) Debit(ctx context.Context, accountID uint, currency models.Currency, amount int64, source string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if source == "" {
		source = models.SourcePurchase
	}

	var newBalance int64
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		var err error
		newBalance, err = tx.DebitBalance(ctx, accountID, currency, amount)
		if err != nil {
			return err
		}
		return tx.CreateEntry(ctx, &models.LedgerEntry{
			AccountID: accountID,
			Type:      models.EntryTypeWithdraw,
			Amount:    amount,
			Currency:  currency,
			Source:    source,
		})
	})
	if err != nil {
		return 0, mapRepoError(err)
	}

	s.invalidateBalance(ctx, accountID)
	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount,
		"currency":   currency,
		"source":     source,
		"type":       models.EntryTypeWithdraw,
	}).Info("balance debited")

	return newBalance, nil
}

func (s *service) Transfer(ctx context.Context, fromID, toID uint, currency models.Currency, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromID == toID {
		return nil, ErrSelfTransfer
	}

	// Recipient existence is checked before the sender's funds so the
	// caller gets a not-found error rather than a misleading
	// insufficient-funds one.
	if _, err := s.repo.GetAccount(ctx, toID); err != nil {
		return nil, mapRepoError(err)
	}

	reference := uuid.NewString()
	var senderBalance int64
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		var err error
		senderBalance, err = tx.DebitBalance(ctx, fromID, currency, amount)
		if err != nil {
			return err
		}
		if _, err = tx.CreditBalance(ctx, toID, currency, amount); err != nil {
			return err
		}
		if err := tx.CreateEntry(ctx, &models.LedgerEntry{
			AccountID: fromID,
			Type:      models.EntryTypeTransfer,
			Amount:    amount,
			Currency:  currency,
			Source:    fmt.Sprintf("transfer_to_%d", toID),
			Reference: reference,
		}); err != nil {
			return err
		}
		return tx.CreateEntry(ctx, &models.LedgerEntry{
			AccountID: toID,
			Type:      models.EntryTypeDeposit,
			Amount:    amount,
			Currency:  currency,
			Source:    fmt.Sprintf("transfer_from_%d", fromID),
			Reference: reference,
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"from_account": fromID,
			"to_account":   toID,
			"amount":       amount,
			"currency":     currency,
			"error":        err.Error(),
		}).Error("transfer failed")
		return nil, mapRepoError(err)
	}

	s.invalidateBalance(ctx, fromID)
	s.invalidateBalance(ctx, toID)
	logrus.WithFields(logrus.Fields{
		"from_account": fromID,
		"to_account":   toID,
		"amount":       amount,
		"currency":     currency,
		"reference":    reference,
	}).Info("transfer completed")

	return &TransferResult{Reference: reference, Balance: senderBalance}, nil
}

func (s *service) History(ctx context.Context, accountID uint, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	entries, err := s.repo.GetHistory(ctx, accountID, limit)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return entries, nil
}

func (s *service) Stats(ctx context.Context, accountID uint) (*Stats, error) {
	rows, err := s.repo.GetStats(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	stats := &Stats{}
	for _, row := range rows {
		stats.TransactionCount += row.Count
		switch row.Type {
		case models.EntryTypeDeposit:
			stats.TotalDeposits.add(row.Currency, row.Total)
		case models.EntryTypeWithdraw:
			stats.TotalWithdrawals.add(row.Currency, row.Total)
		case models.EntryTypeTransfer:
			stats.TotalTransfers.add(row.Currency, row.Total)
		}
	}
	return stats, nil
}

func (t *CurrencyTotals) add(currency models.Currency, amount int64) {
	switch currency {
	case models.CurrencyCoins:
		t.Coins += amount
	case models.CurrencyCrystals:
		t.Crystals += amount
	case models.CurrencyKarma:
		t.Karma += amount
	}
}

func (s *service) invalidateBalance(ctx context.Context, accountID uint) {
	key := s.cache.GenerateKey(balanceCachePrefix, "balance", accountID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("account_id", accountID).
			Warn("failed to invalidate balance cache")
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, repositories.ErrUnknownCurrency):
		return ErrInvalidCurrency
	default:
		return err
	}
}
