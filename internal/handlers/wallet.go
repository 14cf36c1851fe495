package handlers

import (
	"errors"

	"campuspay/internal/models"
	"campuspay/internal/services/wallet"
	"campuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, balance)
}

type amountRequest struct {
	Amount   int64  `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required"`
	Source   string `json:"source"`
}

func (h *WalletHandler) Add(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	req, currency, err := parseAmountRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	balance, err := h.walletService.Credit(c.Context(), claims.UserID, currency, req.Amount, req.Source)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"currency": currency,
		"balance":  balance,
	})
}

func (h *WalletHandler) Spend(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	req, currency, err := parseAmountRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	balance, err := h.walletService.Debit(c.Context(), claims.UserID, currency, req.Amount, req.Source)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"currency": currency,
		"balance":  balance,
	})
}

type transferRequest struct {
	ToUserID uint   `json:"to_user_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required"`
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	result, err := h.walletService.Transfer(c.Context(), claims.UserID, req.ToUserID, currency, req.Amount)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, result)
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	entries, err := h.walletService.History(c.Context(), claims.UserID, c.QueryInt("limit"))
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, fiber.Map{"transactions": entries})
}

func (h *WalletHandler) Stats(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	stats, err := h.walletService.Stats(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, stats)
}

func parseAmountRequest(c *fiber.Ctx) (*amountRequest, models.Currency, error) {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "", errors.New("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return nil, "", err
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return nil, "", err
	}
	return &req, currency, nil
}

// walletError maps service errors to HTTP status codes.
func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrAccountNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidCurrency),
		errors.Is(err, wallet.ErrSelfTransfer),
		errors.Is(err, wallet.ErrInsufficientBalance):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, "wallet operation failed")
	}
}
