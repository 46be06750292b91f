package routes

import (
	"lexdesk/internal/access"
	"lexdesk/internal/api/middleware"
	"lexdesk/internal/config"
	"lexdesk/internal/handlers"
	"lexdesk/internal/models"
	"lexdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// SetupBillingRoutes wires the billing surface. The webhook is mounted on the
// bare echo instance: the gateway authenticates with a signature, not a JWT.
func SetupBillingRoutes(e *echo.Echo, api *echo.Group, guard *access.Guard, subscriptions *services.SubscriptionService, cfg *config.Config) {
	paymentHandler := handlers.NewPaymentHandler(subscriptions, guard, cfg)

	e.POST("/api/v1/payments/webhook", paymentHandler.Webhook)

	billing := api.Group("/billing")
	billing.GET("/plans", paymentHandler.ListPlans)
	billing.GET("/subscription", paymentHandler.GetSubscription,
		middleware.RequireAccess(guard, models.CategoryFinancial, models.ActionView))

	// Everything that changes billing state is owner-only.
	ownerBilling := billing.Group("")
	ownerBilling.Use(middleware.RequireOwner(guard))
	ownerBilling.POST("/checkout", paymentHandler.Checkout)
	ownerBilling.DELETE("/subscription", paymentHandler.CancelSubscription)
	ownerBilling.POST("/usage/refresh", paymentHandler.RefreshUsage)
}
