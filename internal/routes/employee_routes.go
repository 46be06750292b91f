package routes

import (
	"lexdesk/internal/access"
	"lexdesk/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupEmployeeRoutes(api *echo.Group, db *gorm.DB, guard *access.Guard) {
	employeeHandler := handlers.NewEmployeeHandler(db, guard)

	employees := api.Group("/employees")
	employees.POST("", employeeHandler.CreateEmployee)
	employees.GET("", employeeHandler.ListEmployees)
	employees.GET("/:id", employeeHandler.GetEmployee)
	employees.PUT("/:id", employeeHandler.UpdateEmployee)
	employees.DELETE("/:id", employeeHandler.DeleteEmployee)
}
