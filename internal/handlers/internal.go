package handlers

import (
	"walletd/internal/config"
	"walletd/internal/repositories"
	"walletd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// InternalHandler serves service-to-service endpoints guarded by a shared
// token instead of user JWTs.
type InternalHandler struct {
	repo repositories.WalletRepository
}

func NewInternalHandler(repo repositories.WalletRepository) *InternalHandler {
	return &InternalHandler{repo: repo}
}

// ValidateReceiver confirms a wallet can receive an incoming transfer: it
// must exist and be active. Frozen wallets still accept credits.
func (h *InternalHandler) ValidateReceiver(c *fiber.Ctx) error {
	token := config.GetEnv("INTERNAL_API_TOKEN", "")
	if token == "" || c.Get("Internal-Token") != token {
		return response.Unauthorized(c)
	}

	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.repo.GetByID(walletID)
	if err != nil {
		return response.NotFound(c, "wallet not found")
	}
	if !w.Active {
		return response.Forbidden(c, "wallet is not active")
	}

	return response.Success(c, "receiver valid", fiber.Map{"wallet_id": w.ID})
}
