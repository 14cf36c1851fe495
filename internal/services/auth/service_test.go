package auth

import (
	"context"
	"testing"

	"campuspay/internal/models"
	"campuspay/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byID       map[uint]*models.Account
	byUsername map[string]*models.Account
	nextID     uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[uint]*models.Account),
		byUsername: make(map[string]*models.Account),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, account *models.Account) error {
	if _, exists := r.byUsername[account.Username]; exists {
		return repositories.ErrDuplicateUser
	}
	r.nextID++
	account.ID = r.nextID
	if account.TokenVersion == 0 {
		account.TokenVersion = 1
	}
	r.byID[account.ID] = account
	r.byUsername[account.Username] = account
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return account, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	account, ok := r.byUsername[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return account, nil
}

func (r *fakeUserRepo) IncrementTokenVersion(_ context.Context, id uint) error {
	account, ok := r.byID[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	account.TokenVersion++
	return nil
}

func (r *fakeUserRepo) ListPaginated(_ context.Context, limit, offset int) ([]models.Account, int64, error) {
	return nil, int64(len(r.byID)), nil
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo(), "test-secret")

	account, err := svc.Register(ctx, "amelia", "amelia@campus.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.NotEqual(t, "correct-horse", account.Password, "password must be stored hashed")

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "amelia", "other@campus.edu", "correct-horse")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "bob@campus.edu", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "amelia", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login issues a valid token", func(t *testing.T) {
		token, err := svc.Login(ctx, "amelia", "correct-horse")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, claims.UserID)
		assert.Equal(t, "amelia", claims.Username)
	})

	t.Run("logout invalidates existing tokens", func(t *testing.T) {
		token, err := svc.Login(ctx, "amelia", "correct-horse")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, account.ID))

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
