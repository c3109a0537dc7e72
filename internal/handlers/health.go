package handlers

import (
	"walletd/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// Health reports liveness of the process and its backing stores.
func Health(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "ok",
		"database": "up",
		"cache":    "up",
	}
	code := fiber.StatusOK

	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["database"] = "down"
		status["status"] = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	if repositories.CacheService == nil || repositories.CacheService.HealthCheck(c.Context()) != nil {
		status["cache"] = "down"
		if code == fiber.StatusOK {
			status["status"] = "degraded"
		}
	}

	return c.Status(code).JSON(status)
}
