package routes

import (
	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/handlers"
	"lexdesk/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupReportRoutes(api *echo.Group, db *gorm.DB, guard *access.Guard) {
	reportHandler := handlers.NewReportHandler(db, guard)

	reports := api.Group("/reports")
	reports.Use(apimiddleware.RequireAccess(guard, models.CategoryReports, models.ActionView))
	reports.GET("/overview", reportHandler.Overview)
}
