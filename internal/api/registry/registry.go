package registry

import (
	"github.com/labstack/echo/v4"

	"lexdesk/internal/access"
	"lexdesk/internal/api/controllers"
	"lexdesk/internal/models"
	"lexdesk/internal/services"

	"gorm.io/gorm"
)

// RegisterCRUDRoutes wires the tenant-scoped entity routes. Each entity is
// bound to its permission category, and quota-bound entities additionally to
// their resource kind.
// @Summary Register CRUD routes for all models
// @Description Register CRUD routes for all models
// @Accept json
// @Produce json
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB, guard *access.Guard) {
	// Clients: quota-bound
	clientService := services.NewBaseService(db, models.Client{})
	clientController := controllers.NewBaseController(clientService, guard, models.CategoryClients, models.KindClients)
	// @Summary Client CRUD
	// @Description Create, read, update and delete firm clients
	// @Router /api/v1/clients [get]
	clientController.RegisterRoutes(g, "/clients")

	// Cases: quota-bound
	caseService := services.NewBaseService(db, models.Case{})
	caseController := controllers.NewBaseController(caseService, guard, models.CategoryCases, models.KindCases)
	// @Summary Case CRUD
	// @Description Create, read, update and delete legal cases
	// @Router /api/v1/cases [get]
	caseController.RegisterRoutes(g, "/cases")

	// Court sessions live under the cases permission category and carry no
	// quota of their own.
	sessionService := services.NewBaseService(db, models.CourtSession{})
	sessionController := controllers.NewBaseController(sessionService, guard, models.CategoryCases, "")
	// @Summary Court session CRUD
	// @Description Create, read, update and delete court sessions
	// @Router /api/v1/court-sessions [get]
	sessionController.RegisterRoutes(g, "/court-sessions")

	// Appointments: not quota-bound
	appointmentService := services.NewBaseService(db, models.Appointment{})
	appointmentController := controllers.NewBaseController(appointmentService, guard, models.CategoryAppointments, "")
	// @Summary Appointment CRUD
	// @Description Create, read, update and delete appointments
	// @Router /api/v1/appointments [get]
	appointmentController.RegisterRoutes(g, "/appointments")

	// Document metadata is read-only here: creation and deletion go through
	// the upload routes, which also settle the storage quota.
	documentService := services.NewBaseService(db, models.Document{})
	documentController := controllers.NewBaseController(documentService, guard, models.CategoryDocuments, models.KindDocuments)
	// @Summary Document listing
	// @Description List and fetch document metadata
	// @Router /api/v1/documents [get]
	documentController.RegisterRoutes(g, "/documents", "GET")
}
