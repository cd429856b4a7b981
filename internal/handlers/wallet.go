package handlers

import (
	"errors"

	"payvault/internal/gateway/paystack"
	"payvault/internal/repositories"
	"payvault/internal/services/wallet"
	"payvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	var input struct {
		Currency string `json:"currency"`
	}
	// Body is optional; currency defaults to USD.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Invalid request format")
		}
	}

	w, err := h.walletService.CreateWallet(c.Context(), input.Currency)
	if err != nil {
		return utils.InternalError(c, "Failed to create wallet")
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	w, err := h.walletService.GetWallet(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return utils.NotFound(c, "Wallet not found")
		}
		return utils.InternalError(c, "Failed to get wallet")
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) ListWallets(c *fiber.Ctx) error {
	wallets, err := h.walletService.ListWallets(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list wallets")
	}
	return utils.Success(c, fiber.Map{"wallets": wallets})
}

func (h *WalletHandler) FundWallet(c *fiber.Ctx) error {
	var input struct {
		Amount float64 `json:"amount"`
		Email  string  `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	intent, err := h.walletService.FundWallet(c.Context(), c.Params("id"), input.Email, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		case errors.Is(err, wallet.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, paystack.ErrUnavailable):
			return utils.BadGateway(c, "Payment gateway unavailable")
		}
		return utils.InternalError(c, "Failed to initialize funding")
	}
	return utils.Success(c, intent)
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	var input struct {
		FromWalletID string  `json:"from_wallet_id"`
		ToWalletID   string  `json:"to_wallet_id"`
		Amount       float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	err := h.walletService.Transfer(c.Context(), input.FromWalletID, input.ToWalletID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		case errors.Is(err, wallet.ErrInvalidAmount),
			errors.Is(err, wallet.ErrSelfTransfer),
			errors.Is(err, wallet.ErrInsufficientBalance):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Transfer failed")
	}
	return utils.Success(c, fiber.Map{"message": "Transfer successful"})
}
