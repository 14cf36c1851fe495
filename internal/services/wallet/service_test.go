package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuspay/internal/models"
	"campuspay/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory WalletRepository with snapshot-based
// transaction rollback, so atomicity behaves like the real database.
type fakeRepo struct {
	accounts    map[uint]*models.Account
	entries     []models.LedgerEntry
	nextEntryID uint
	failEntry   bool
}

func newFakeRepo(accounts ...*models.Account) *fakeRepo {
	r := &fakeRepo{accounts: make(map[uint]*models.Account)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeRepo) GetAccount(_ context.Context, id uint) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeRepo) balancePtr(account *models.Account, currency models.Currency) (*int64, error) {
	switch currency {
	case models.CurrencyCoins:
		return &account.Coins, nil
	case models.CurrencyCrystals:
		return &account.Crystals, nil
	case models.CurrencyKarma:
		return &account.Karma, nil
	default:
		return nil, repositories.ErrUnknownCurrency
	}
}

func (r *fakeRepo) CreditBalance(_ context.Context, id uint, currency models.Currency, amount int64) (int64, error) {
	account, ok := r.accounts[id]
	if !ok {
		return 0, repositories.ErrAccountNotFound
	}
	balance, err := r.balancePtr(account, currency)
	if err != nil {
		return 0, err
	}
	*balance += amount
	return *balance, nil
}

func (r *fakeRepo) DebitBalance(_ context.Context, id uint, currency models.Currency, amount int64) (int64, error) {
	account, ok := r.accounts[id]
	if !ok {
		return 0, repositories.ErrAccountNotFound
	}
	balance, err := r.balancePtr(account, currency)
	if err != nil {
		return 0, err
	}
	if *balance < amount {
		return 0, repositories.ErrInsufficientBalance
	}
	*balance -= amount
	return *balance, nil
}

func (r *fakeRepo) CreateEntry(_ context.Context, entry *models.LedgerEntry) error {
	if r.failEntry {
		return errors.New("ledger write failed")
	}
	r.nextEntryID++
	entry.ID = r.nextEntryID
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeRepo) GetHistory(_ context.Context, accountID uint, limit int) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].AccountID == accountID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeRepo) GetStats(_ context.Context, accountID uint) ([]repositories.LedgerAggregate, error) {
	type key struct {
		entryType string
		currency  models.Currency
	}
	grouped := make(map[key]*repositories.LedgerAggregate)
	var order []key
	for _, e := range r.entries {
		if e.AccountID != accountID {
			continue
		}
		k := key{e.Type, e.Currency}
		if _, ok := grouped[k]; !ok {
			grouped[k] = &repositories.LedgerAggregate{Type: e.Type, Currency: e.Currency}
			order = append(order, k)
		}
		grouped[k].Total += e.Amount
		grouped[k].Count++
	}
	var rows []repositories.LedgerAggregate
	for _, k := range order {
		rows = append(rows, *grouped[k])
	}
	return rows, nil
}

func (r *fakeRepo) ListEntries(_ context.Context, filter repositories.LedgerFilter, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var matched []models.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter.AccountID != 0 && e.AccountID != filter.AccountID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	snapshot := make(map[uint]*models.Account, len(r.accounts))
	for id, a := range r.accounts {
		copied := *a
		snapshot[id] = &copied
	}
	entriesLen := len(r.entries)

	if err := fn(r); err != nil {
		r.accounts = snapshot
		r.entries = r.entries[:entriesLen]
		return err
	}
	return nil
}

func account(id uint, coins, crystals, karma int64) *models.Account {
	return &models.Account{ID: id, Username: "user", Coins: coins, Crystals: crystals, Karma: karma}
}

func TestService_Credit(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{name: "zero amount rejected", amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", amount: -5, wantErr: ErrInvalidAmount},
		{name: "positive amount credited", amount: 20, wantBalance: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(account(1, 100, 0, 0))
			svc := NewService(repo, nil)

			balance, err := svc.Credit(context.Background(), 1, models.CurrencyCoins, tt.amount, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.entries, "failed credit must not write ledger entries")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)

			require.Len(t, repo.entries, 1)
			entry := repo.entries[0]
			assert.Equal(t, models.EntryTypeDeposit, entry.Type)
			assert.Equal(t, models.SourceReward, entry.Source)
			assert.Equal(t, tt.amount, entry.Amount)
		})
	}
}

func TestService_Credit_UnknownAccount(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Credit(context.Background(), 42, models.CurrencyCoins, 10, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestService_Debit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(account(1, 100, 0, 0))
	svc := NewService(repo, nil)

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		_, err := svc.Debit(ctx, 1, models.CurrencyCoins, 150, "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		balance, err := svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance.Coins)
		assert.Empty(t, repo.entries)
	})

	t.Run("successful debit decrements and records withdraw", func(t *testing.T) {
		balance, err := svc.Debit(ctx, 1, models.CurrencyCoins, 50, "")
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)

		history, err := svc.History(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.EntryTypeWithdraw, history[0].Type)
		assert.Equal(t, int64(50), history[0].Amount)
		assert.Equal(t, models.CurrencyCoins, history[0].Currency)
		assert.Equal(t, models.SourcePurchase, history[0].Source)
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := svc.Debit(ctx, 1, models.CurrencyCoins, 0, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("self transfer rejected regardless of balance", func(t *testing.T) {
		svc := NewService(newFakeRepo(account(5, 1000, 0, 0)), nil)
		_, err := svc.Transfer(ctx, 5, 5, models.CurrencyCoins, 10)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("recipient must exist", func(t *testing.T) {
		svc := NewService(newFakeRepo(account(1, 100, 0, 0)), nil)
		_, err := svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 10)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("sender must exist", func(t *testing.T) {
		svc := NewService(newFakeRepo(account(2, 0, 0, 0)), nil)
		_, err := svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 10)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		repo := newFakeRepo(account(1, 5, 0, 0), account(2, 0, 0, 0))
		svc := NewService(repo, nil)
		_, err := svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 10)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, int64(5), repo.accounts[1].Coins)
		assert.Equal(t, int64(0), repo.accounts[2].Coins)
		assert.Empty(t, repo.entries)
	})

	t.Run("successful transfer moves funds and writes paired entries", func(t *testing.T) {
		repo := newFakeRepo(account(1, 100, 0, 0), account(2, 20, 0, 0))
		svc := NewService(repo, nil)

		result, err := svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(70), result.Balance)
		assert.NotEmpty(t, result.Reference)

		assert.Equal(t, int64(70), repo.accounts[1].Coins)
		assert.Equal(t, int64(50), repo.accounts[2].Coins)

		require.Len(t, repo.entries, 2)
		out, in := repo.entries[0], repo.entries[1]
		assert.Equal(t, models.EntryTypeTransfer, out.Type)
		assert.Equal(t, "transfer_to_2", out.Source)
		assert.Equal(t, models.EntryTypeDeposit, in.Type)
		assert.Equal(t, "transfer_from_1", in.Source)
		assert.Equal(t, out.Reference, in.Reference)
		assert.Equal(t, result.Reference, out.Reference)
	})

	t.Run("ledger failure rolls back both balances", func(t *testing.T) {
		repo := newFakeRepo(account(1, 100, 0, 0), account(2, 0, 0, 0))
		repo.failEntry = true
		svc := NewService(repo, nil)

		_, err := svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 30)
		require.Error(t, err)
		assert.Equal(t, int64(100), repo.accounts[1].Coins)
		assert.Equal(t, int64(0), repo.accounts[2].Coins)
		assert.Empty(t, repo.entries)
	})
}

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(account(1, 10, 20, 30)), nil)

	first, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &Balance{Coins: 10, Crystals: 20, Karma: 30}, first)

	second, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated reads without writes must match")

	_, err = svc.GetBalance(ctx, 99)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestService_LedgerReconstructsBalance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(account(1, 0, 0, 0), account(2, 0, 0, 0))
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, models.CurrencyCoins, 100, "quiz")
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, models.CurrencyCoins, 40, "streak")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, models.CurrencyCoins, 25, "shop")
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 15)
	require.NoError(t, err)

	var sum int64
	for _, e := range repo.entries {
		if e.AccountID != 1 || e.Currency != models.CurrencyCoins {
			continue
		}
		switch e.Type {
		case models.EntryTypeDeposit:
			sum += e.Amount
		case models.EntryTypeWithdraw, models.EntryTypeTransfer:
			sum -= e.Amount
		}
	}

	balance, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, balance.Coins, sum)
	assert.Equal(t, int64(100), balance.Coins)
	assert.GreaterOrEqual(t, balance.Coins, int64(0))
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(account(1, 0, 0, 0))
	svc := NewService(repo, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Credit(ctx, 1, models.CurrencyKarma, int64(i+1), "")
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	// Newest first.
	assert.Equal(t, int64(5), history[0].Amount)
	assert.Equal(t, int64(4), history[1].Amount)
	assert.Equal(t, int64(3), history[2].Amount)

	all, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "zero limit falls back to the default")
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(account(1, 0, 0, 0), account(2, 0, 0, 0))
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, models.CurrencyCoins, 100, "")
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, models.CurrencyCrystals, 7, "")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, models.CurrencyCoins, 30, "")
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, 1, 2, models.CurrencyCoins, 20)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stats.TotalDeposits.Coins)
	assert.Equal(t, int64(7), stats.TotalDeposits.Crystals)
	assert.Equal(t, int64(30), stats.TotalWithdrawals.Coins)
	assert.Equal(t, int64(20), stats.TotalTransfers.Coins)
	assert.Equal(t, int64(4), stats.TransactionCount)
}
