package handlers

import (
	"errors"

	"payvault/internal/gateway/paystack"
	"payvault/internal/repositories"
	"payvault/internal/services/coupon"
	"payvault/internal/services/purchase"
	"payvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	purchaseService purchase.Service
}

func NewPurchaseHandler(purchaseService purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

type purchaseInput struct {
	WalletID   string  `json:"wallet_id"`
	Email      string  `json:"email"`
	Amount     float64 `json:"amount"`
	CouponCode string  `json:"coupon_code"`
}

func (in *purchaseInput) validate() string {
	if in.WalletID == "" {
		return "Wallet id is required"
	}
	if in.Email == "" {
		return "Email is required"
	}
	if in.Amount <= 0 {
		return "Amount must be greater than zero"
	}
	return ""
}

func (h *PurchaseHandler) OneTimePurchase(c *fiber.Ctx) error {
	var input purchaseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if msg := input.validate(); msg != "" {
		return utils.BadRequest(c, msg)
	}

	intent, err := h.purchaseService.OneTimePurchase(c.Context(), input.WalletID, input.Email, input.Amount, input.CouponCode)
	if err != nil {
		return h.mapError(c, err)
	}
	return utils.Success(c, intent)
}

func (h *PurchaseHandler) SubscriptionPurchase(c *fiber.Ctx) error {
	var input purchaseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if msg := input.validate(); msg != "" {
		return utils.BadRequest(c, msg)
	}

	intent, err := h.purchaseService.SubscriptionPurchase(c.Context(), input.WalletID, input.Email, input.Amount, input.CouponCode)
	if err != nil {
		return h.mapError(c, err)
	}
	return utils.Success(c, intent)
}

func (h *PurchaseHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrWalletNotFound):
		return utils.NotFound(c, "Wallet not found")
	case errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponLimitReached),
		errors.Is(err, coupon.ErrCouponNotApplicable),
		errors.Is(err, purchase.ErrFirstMonthFreeAlreadyUsed):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, paystack.ErrUnavailable):
		return utils.BadGateway(c, "Payment gateway unavailable")
	}
	return utils.InternalError(c, "Failed to initialize purchase")
}
