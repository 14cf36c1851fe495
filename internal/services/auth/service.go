// Package auth handles account registration, login, and JWT issuance
// and validation.
package auth

import (
	"context"
	"errors"
	"time"

	"campuspay/internal/models"
	"campuspay/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserExists         = errors.New("username or email already taken")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const tokenLifetime = 24 * time.Hour

type Service interface {
	Register(ctx context.Context, username, email, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, userID uint) error
	ValidateToken(ctx context.Context, token string) (*models.UserClaims, error)
}

type service struct {
	userRepo repositories.UserRepository
	secret   []byte
}

func NewService(userRepo repositories.UserRepository, jwtSecret string) Service {
	if userRepo == nil {
		panic("user repo is required")
	}
	return &service{
		userRepo: userRepo,
		secret:   []byte(jwtSecret),
	}
}

func (s *service) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"username":   account.Username,
	}).Info("account registered")

	return account, nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(account)
}

// Logout invalidates all outstanding tokens by bumping the account's
// token version.
func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) ValidateToken(ctx context.Context, tokenStr string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	account, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if account.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) generateToken(account *models.Account) (string, error) {
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:       account.ID,
		Username:     account.Username,
		Role:         account.Role,
		TokenVersion: account.TokenVersion,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
