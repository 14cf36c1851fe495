package repositories

import (
	"context"
	"errors"

	"campuspay/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already taken")
)

// UserRepository defines account management operations.
type UserRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	IncrementTokenVersion(ctx context.Context, id uint) error
	ListPaginated(ctx context.Context, limit, offset int) ([]models.Account, int64, error)
}
