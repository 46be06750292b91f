package routes

import (
	"lexdesk/internal/access"
	"lexdesk/internal/handlers"
	"lexdesk/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupUploadRoutes(api *echo.Group, db *gorm.DB, guard *access.Guard) {
	log := logger.New("upload_routes")

	uploadHandler := handlers.NewUploadHandler(db, guard)

	documentGroup := api.Group("/documents")
	documentGroup.POST("/upload", uploadHandler.UploadDocument)
	documentGroup.DELETE("/:id", uploadHandler.DeleteDocument)

	log.Success("Upload routes initialized successfully")
}
