package routes

import (
	"lexdesk/internal/api/middleware"
	"lexdesk/internal/config"
	"lexdesk/internal/handlers"
	"lexdesk/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, subscriptions *services.SubscriptionService) {
	authHandler := handlers.NewAuthHandler(db, subscriptions)

	base := e.Group("/api/v1")

	// Public auth routes group
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/verify", authHandler.VerifyResetCode)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected auth routes (require authentication)
	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWT.Secret)
	protectedAuth := auth.Group("")
	protectedAuth.Use(authMiddleware.Middleware())

	protectedAuth.GET("/me", authHandler.GetMe)
	protectedAuth.POST("/logout", authHandler.Logout)
}
