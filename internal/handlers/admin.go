package handlers

import (
	"time"

	"walletd/internal/middleware"
	"walletd/internal/repositories"
	"walletd/internal/services/blacklist"
	"walletd/internal/services/wallet"
	"walletd/internal/utils/pagination"
	"walletd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler groups the operator-only endpoints. Route registration puts
// these behind AdminOnly, but the services re-check the caller anyway.
type AdminHandler struct {
	wallets   wallet.Service
	blacklist blacklist.Service
}

func NewAdminHandler(wallets wallet.Service, bl blacklist.Service) *AdminHandler {
	return &AdminHandler{wallets: wallets, blacklist: bl}
}

func (h *AdminHandler) ListAllWallets(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	wallets, err := h.wallets.ListAllWallets(c.Context(), caller)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallets retrieved", wallets)
}

// ListAllTransactions is the operator's ledger scan: every wallet, optional
// type/date filters, paginated.
func (h *AdminHandler) ListAllTransactions(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var filter repositories.TransactionFilter
	filter.Type = c.Query("type")
	if start := c.Query("start"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return response.BadRequest(c, "start must be RFC3339")
		}
		filter.Start = &t
	}
	if end := c.Query("end"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return response.BadRequest(c, "end must be RFC3339")
		}
		filter.End = &t
	}

	p := pagination.ParseFromRequest(c)
	entries, total, err := h.wallets.ListEntriesFiltered(c.Context(), caller, filter, p.Limit, p.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}

func (h *AdminHandler) Unfreeze(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	if err := h.wallets.Unfreeze(c.Context(), caller, walletID); err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallet unfrozen", fiber.Map{"wallet_id": walletID})
}

func (h *AdminHandler) BlacklistWallet(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	withOwner := c.Query("with_owner") == "true"
	if withOwner {
		err = h.blacklist.BlacklistWalletAndOwner(c.Context(), caller, walletID)
	} else {
		err = h.blacklist.BlacklistWallet(c.Context(), caller, walletID)
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallet blacklisted", fiber.Map{"wallet_id": walletID})
}

func (h *AdminHandler) BlacklistUser(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	userID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	if err := h.blacklist.BlacklistUser(c.Context(), caller, userID); err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "user wallets blacklisted", fiber.Map{"user_id": userID})
}

func (h *AdminHandler) Reactivate(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	if err := h.blacklist.Reactivate(c.Context(), caller, walletID); err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "wallet reactivated", fiber.Map{"wallet_id": walletID})
}
