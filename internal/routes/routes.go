// Package routes wires repositories, services, and handlers into the
// fiber app and applies the auth middleware per route group.
package routes

import (
	"campuspay/internal/config"
	"campuspay/internal/handlers"
	"campuspay/internal/middleware"
	"campuspay/internal/repositories"
	"campuspay/internal/services/auth"
	"campuspay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	walletRepo := repositories.NewWalletRepository(db)
	userRepo := repositories.NewUserRepository(db)

	authService := auth.NewService(userRepo, config.GetEnv("JWT_SECRET", "campuspay-dev"))
	walletService := wallet.NewService(walletRepo, repositories.CacheService)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	internalHandler := handlers.NewInternalHandler(walletService)
	adminHandler := handlers.NewAdminHandler(userRepo, walletRepo, repositories.CacheService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api")

	// Public endpoints
	api.Get("/health", handlers.HealthCheck)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Server-to-server endpoints, gated by the shared secret instead
	// of a user session.
	internalWallet := api.Group("/internal/wallet",
		middleware.InternalSecret(config.GetEnv("INTERNAL_SECRET", "")))
	internalWallet.Post("/credit", internalHandler.Credit)
	internalWallet.Post("/debit", internalHandler.Debit)

	// Authenticated endpoints
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/logout", authHandler.Logout)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/balance", walletHandler.GetBalance)
	walletGroup.Post("/add", walletHandler.Add)
	walletGroup.Post("/spend", walletHandler.Spend)
	walletGroup.Post("/transfer", walletHandler.Transfer)
	walletGroup.Get("/transactions", walletHandler.Transactions)
	walletGroup.Get("/stats", walletHandler.Stats)

	admin := protected.Group("/admin", middleware.AdminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/ledger", adminHandler.ListLedger)
}
