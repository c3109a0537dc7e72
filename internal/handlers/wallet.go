package handlers

import (
	"strconv"

	"walletd/internal/middleware"
	"walletd/internal/services/wallet"
	"walletd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	wallets wallet.Service
}

func NewWalletHandler(svc wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: svc}
}

func walletIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid wallet id")
	}
	return uint(id), nil
}

type createWalletRequest struct {
	UserID  uint    `json:"user_id"`
	Balance float64 `json:"balance"`
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var req createWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		req.UserID = caller.UserID
	}

	w, err := h.wallets.CreateWallet(c.Context(), caller, req.UserID, req.Balance)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "wallet created",
		"data":    w,
	})
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.wallets.GetWallet(c.Context(), caller, walletID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallet retrieved", w)
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	balance, err := h.wallets.GetBalance(c.Context(), caller, walletID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "balance retrieved", fiber.Map{
		"wallet_id": walletID,
		"balance":   balance,
	})
}

func (h *WalletHandler) RemainingLimit(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	remaining, err := h.wallets.RemainingLimit(c.Context(), caller, walletID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "remaining limit retrieved", fiber.Map{
		"wallet_id": walletID,
		"remaining": remaining,
	})
}

// ListMine returns the caller's own wallets.
func (h *WalletHandler) ListMine(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	wallets, err := h.wallets.ListWallets(c.Context(), caller, caller.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallets retrieved", wallets)
}
