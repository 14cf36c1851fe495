package handlers

import (
	"time"

	"campuspay/internal/models"
	"campuspay/internal/repositories"
	"campuspay/internal/repositories/cache"
	"campuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	adminDefaultPageSize = 20
	adminMaxPageSize     = 100
	adminCacheTTL        = 60 * time.Second
)

// AdminHandler exposes read-only platform oversight endpoints. Routes
// using it must be wrapped in middleware.AdminOnly.
type AdminHandler struct {
	userRepo   repositories.UserRepository
	walletRepo repositories.WalletRepository
	cache      *cache.CacheService
}

func NewAdminHandler(userRepo repositories.UserRepository, walletRepo repositories.WalletRepository, cacheService *cache.CacheService) *AdminHandler {
	return &AdminHandler{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		cache:      cacheService,
	}
}

type accountSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Coins    int64  `json:"coins"`
	Crystals int64  `json:"crystals"`
	Karma    int64  `json:"karma"`
}

type userListPage struct {
	Users    []accountSummary `json:"users"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, pageSize := pagination(c)

	cacheKey := ""
	if h.cache != nil {
		cacheKey = h.cache.GenerateKey("admin", "users", fiber.Map{"page": page, "size": pageSize})
		var cached userListPage
		if found, err := h.cache.Get(c.Context(), cacheKey, &cached); err == nil && found {
			return utils.Success(c, cached)
		}
	}

	accounts, total, err := h.userRepo.ListPaginated(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		logrus.WithError(err).Error("failed to list accounts")
		return utils.InternalError(c, "failed to list accounts")
	}

	summaries := make([]accountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, accountSummary{
			ID:       a.ID,
			Username: a.Username,
			Email:    a.Email,
			Role:     a.Role,
			Coins:    a.Coins,
			Crystals: a.Crystals,
			Karma:    a.Karma,
		})
	}

	result := userListPage{
		Users:    summaries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	if h.cache != nil {
		if err := h.cache.SetWithTTL(c.Context(), cacheKey, result, adminCacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache user listing")
		}
	}
	return utils.Success(c, result)
}

func (h *AdminHandler) ListLedger(c *fiber.Ctx) error {
	page, pageSize := pagination(c)

	filter := repositories.LedgerFilter{
		AccountID: uint(c.QueryInt("user_id")),
		Type:      c.Query("type"),
	}
	if raw := c.Query("currency"); raw != "" {
		currency, err := models.ParseCurrency(raw)
		if err != nil {
			return utils.BadRequest(c, err.Error())
		}
		filter.Currency = string(currency)
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid from timestamp, expected RFC3339")
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid to timestamp, expected RFC3339")
		}
		filter.To = &t
	}

	entries, total, err := h.walletRepo.ListEntries(c.Context(), filter, pageSize, (page-1)*pageSize)
	if err != nil {
		logrus.WithError(err).Error("failed to list ledger entries")
		return utils.InternalError(c, "failed to list ledger entries")
	}

	return utils.Success(c, fiber.Map{
		"entries":   entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func pagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("page_size", adminDefaultPageSize)
	if pageSize < 1 {
		pageSize = adminDefaultPageSize
	}
	if pageSize > adminMaxPageSize {
		pageSize = adminMaxPageSize
	}
	return page, pageSize
}
