package api

import (
	"net/http"
	"time"

	apimw "lexdesk/internal/api/middleware"
	"lexdesk/internal/api/registry"
	"lexdesk/internal/routes"

	_ "lexdesk/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")
	auth := apimw.NewAuthMiddleware(s.db, s.config.JWT.Secret)
	api.Use(auth.Middleware())

	// Per-tenant throttle behind the identity middleware, so the window keys
	// on the firm rather than the source address.
	if s.redis != nil {
		limiter := apimw.NewTenantRateLimiter(s.redis, apimw.RateLimit{
			Window:      time.Minute,
			MaxRequests: 300,
		})
		api.Use(limiter.Middleware())
	}

	// Register CRUD routes for all models
	registry.RegisterCRUDRoutes(api, s.db, s.guard)

	routes.SetupUploadRoutes(api, s.db, s.guard)
	routes.SetupEmployeeRoutes(api, s.db, s.guard)
	routes.SetupReportRoutes(api, s.db, s.guard)
	routes.SetupBillingRoutes(s.echo, api, s.guard, s.subscriptions, s.config)

	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "LexDesk API")
	})
}
