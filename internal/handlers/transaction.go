package handlers

import (
	"time"

	"walletd/internal/middleware"
	"walletd/internal/repositories"
	"walletd/internal/services/wallet"
	"walletd/internal/utils/pagination"
	"walletd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	wallets wallet.Service
}

func NewTransactionHandler(svc wallet.Service) *TransactionHandler {
	return &TransactionHandler{wallets: svc}
}

type processRequest struct {
	TransactionID string  `json:"transaction_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

// Process applies a CREDIT or DEBIT to one wallet. Retried submissions with
// the same transaction_id replay the original result.
func (h *TransactionHandler) Process(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	entry, err := h.wallets.Process(c.Context(), caller, walletID, wallet.ProcessRequest{
		TransactionID: req.TransactionID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "transaction processed",
		"data":    entry,
	})
}

type transferRequest struct {
	FromWalletID uint    `json:"from_wallet_id"`
	ToWalletID   uint    `json:"to_wallet_id"`
	Amount       float64 `json:"amount"`
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	entry, err := h.wallets.Transfer(c.Context(), caller, wallet.TransferRequest{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "transfer completed",
		"data":    entry,
	})
}

// List returns a wallet's ledger entries, newest first, with optional
// type/start/end filters.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	walletID, err := walletIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	filter := repositories.TransactionFilter{WalletID: &walletID}
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
