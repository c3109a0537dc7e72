// Package middleware provides HTTP middleware for the application, including
// JWT authentication and role checks for the fiber web framework.
package middleware

import (
	"log"
	"strings"

	"walletd/internal/models"
	"walletd/internal/services/wallet"
	"walletd/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the bearer token and stores the user claims in the request
// context. Handlers convert the claims into an explicit wallet.CallerContext
// before calling into the core.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		_, claims, err := utils.ParseToken(tokenString)
		if err != nil {
			log.Printf("token validation error: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok || claims == nil || !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}

// Caller extracts the authenticated principal for the wallet core.
func Caller(c *fiber.Ctx) (wallet.CallerContext, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return wallet.CallerContext{}, fiber.ErrUnauthorized
	}
	return wallet.CallerContext{
		UserID: claims.UserID,
		Admin:  claims.IsAdmin(),
	}, nil
}
