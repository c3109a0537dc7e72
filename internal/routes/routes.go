// Package routes wires repositories, services, and handlers into the
// fiber application and groups endpoints by authentication requirement.
package routes

import (
	"time"

	"walletd/internal/config"
	"walletd/internal/handlers"
	"walletd/internal/middleware"
	"walletd/internal/repositories"
	"walletd/internal/services/auth"
	"walletd/internal/services/blacklist"
	"walletd/internal/services/receiver"
	"walletd/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	txRepo := repositories.NewTransactionRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)

	// Services
	authService := auth.NewService(userRepo)

	var receiverValidator wallet.ReceiverValidator
	if url := config.GetEnv("RECEIVER_VALIDATION_URL", ""); url != "" {
		receiverValidator = receiver.NewService(url, config.GetEnv("INTERNAL_API_TOKEN", ""))
	}

	walletService := wallet.NewService(
		walletRepo,
		txRepo,
		repositories.CacheService,
		receiverValidator,
		wallet.Config{
			DailyLimit:     config.GetFloatEnv("WALLET_DAILY_LIMIT", wallet.DefaultDailyLimit),
			FreezeDuration: config.GetDurationEnv("WALLET_FREEZE_DURATION", wallet.DefaultFreezeDuration),
			SpendWindow:    config.GetDurationEnv("WALLET_SPEND_WINDOW", wallet.DefaultSpendWindow),
			Retry: wallet.RetryPolicy{
				MaxAttempts: config.GetIntEnv("WALLET_MAX_RETRIES", wallet.DefaultMaxRetries),
				BaseBackoff: config.GetDurationEnv("WALLET_RETRY_BACKOFF", wallet.DefaultBaseBackoff),
			},
		},
		&wallet.NoopMetricsCollector{},
	)

	blacklistService := blacklist.NewService(walletRepo, repositories.CacheService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	txHandler := handlers.NewTransactionHandler(walletService)
	adminHandler := handlers.NewAdminHandler(walletService, blacklistService)
	internalHandler := handlers.NewInternalHandler(walletRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "walletd API",
			"version": "1.0.0",
			"time":    time.Now().UTC(),
		})
	})
	app.Get("/health", handlers.Health)

	// Service-to-service endpoints (shared-token auth)
	app.Get("/internal/wallet/:id/validate", internalHandler.ValidateReceiver)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	// Protected endpoints
	protected := api.Use(middleware.Auth())
	protected.Post("/logout", authHandler.Logout)

	wallets := protected.Group("/wallets")
	wallets.Post("/", walletHandler.Create)
	wallets.Get("/", walletHandler.ListMine)
	wallets.Get("/:id", walletHandler.Get)
	wallets.Get("/:id/balance", walletHandler.Balance)
	wallets.Get("/:id/limit", walletHandler.RemainingLimit)
	wallets.Post("/:id/transactions", txHandler.Process)
	wallets.Get("/:id/transactions", txHandler.List)

	protected.Post("/transfers", txHandler.Transfer)

	// Admin endpoints
	admin := protected.Group("/admin", middleware.AdminOnly())
	admin.Get("/wallets", adminHandler.ListAllWallets)
	admin.Get("/transactions", adminHandler.ListAllTransactions)
	admin.Post("/wallets/:id/unfreeze", adminHandler.Unfreeze)
	admin.Post("/wallets/:id/blacklist", adminHandler.BlacklistWallet)
	admin.Post("/wallets/:id/reactivate", adminHandler.Reactivate)
	admin.Post("/users/:id/blacklist", adminHandler.BlacklistUser)
}
