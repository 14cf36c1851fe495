package handlers

import (
	"campuspay/internal/models"
	"campuspay/internal/services/wallet"
	"campuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// InternalHandler serves trusted server-to-server wallet mutations,
// e.g. the shop service settling a purchase or the achievements
// service paying out a reward. Routes using it must be wrapped in
// middleware.InternalSecret.
type InternalHandler struct {
	walletService wallet.Service
}

func NewInternalHandler(walletService wallet.Service) *InternalHandler {
	return &InternalHandler{walletService: walletService}
}

type internalAmountRequest struct {
	UserID   uint   `json:"user_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required"`
	Source   string `json:"source"`
}

func (h *InternalHandler) Credit(c *fiber.Ctx) error {
	req, currency, err := h.parse(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	balance, err := h.walletService.Credit(c.Context(), req.UserID, currency, req.Amount, req.Source)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"currency": currency,
		"balance":  balance,
	})
}

func (h *InternalHandler) Debit(c *fiber.Ctx) error {
	req, currency, err := h.parse(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	balance, err := h.walletService.Debit(c.Context(), req.UserID, currency, req.Amount, req.Source)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"currency": currency,
		"balance":  balance,
	})
}

func (h *InternalHandler) parse(c *fiber.Ctx) (*internalAmountRequest, models.Currency, error) {
	var req internalAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "", errInvalidBody
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
