package handlers

import (
	"errors"

	errs "walletd/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// writeDomainError maps the wallet error taxonomy onto HTTP responses.
// Anything unrecognized is treated as an internal failure.
func writeDomainError(c *fiber.Ctx, err error) error {
	var frozen *errs.WalletFrozenError
	if errors.As(err, &frozen) {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"code":         "WALLET_FROZEN",
			"error":        frozen.Error(),
			"seconds_left": frozen.SecondsLeft,
		})
	}

	var limit *errs.DailyLimitError
	if errors.As(err, &limit) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"code":      "DAILY_LIMIT_EXCEEDED",
			"error":     limit.Error(),
			"remaining": limit.Remaining,
		})
	}

	var domain *errs.DomainError
	if errors.As(err, &domain) {
		status := fiber.StatusInternalServerError
		switch domain {
		case errs.ErrWalletNotFound, errs.ErrTransactionNotFound:
			status = fiber.StatusNotFound
		case errs.ErrWalletInactive, errs.ErrUnauthorized:
			status = fiber.StatusForbidden
		case errs.ErrInvalidAmount, errs.ErrInvalidTransactionType, errs.ErrSameWallet, errs.ErrInsufficientBalance:
			status = fiber.StatusBadRequest
		case errs.ErrWalletBusy:
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"code":  domain.Code,
			"error": domain.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":  "UNEXPECTED",
		"error": "internal error",
	})
}
