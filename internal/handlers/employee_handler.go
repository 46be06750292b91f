package handlers

import (
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/api/validator"
	"lexdesk/internal/events"
	"lexdesk/internal/models"
	"lexdesk/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmployeeHandler manages a firm's employee accounts. Every operation runs
// through the guard under the employees category; creating an employee
// consumes a seat from the users quota.
type EmployeeHandler struct {
	db    *gorm.DB
	guard *access.Guard
	log   *logger.Logger
}

func NewEmployeeHandler(db *gorm.DB, guard *access.Guard) *EmployeeHandler {
	return &EmployeeHandler{db: db, guard: guard, log: logger.New("EmployeeHandler")}
}

// CreateEmployee adds an employee account under the actor's firm.
// @Summary Create an employee
// @Description Create an employee account under the current firm
// @Tags employees
// @Accept json
// @Produce json
// @Param request body validator.EmployeeRequest true "Employee details"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Validation error or email exists"
// @Failure 402 {object} access.Refusal "Seat limit reached"
// @Failure 403 {object} access.Refusal "Insufficient permission"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/employees [post]
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req validator.EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if models.UserRole(req.Role) == models.UserRoleOwner {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Employees cannot hold the owner role"})
	}

	actor := apimiddleware.GetActor(c)
	tenantID, r := h.guard.CheckCreate(c.Request().Context(), actor, models.CategoryEmployees, models.KindUsers, 1)
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	var existing models.User
	if err := h.db.Where("email = ?", strings.ToLower(req.Email)).First(&existing).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	// Explicit permissions win over the role defaults.
	perms := models.DefaultPermissions(models.UserRole(req.Role))
	if req.Permissions != nil {
		perms = *req.Permissions
	}

	employee := models.User{
		Email:       strings.ToLower(req.Email),
		Password:    string(hashedPassword),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AccountType: models.AccountTypeEmployee,
		OwnerID:     &tenantID,
		Role:        models.UserRole(req.Role),
		Department:  req.Department,
		IsActive:    true,
		Permissions: datatypes.NewJSONType(perms),
	}

	if err := h.db.Create(&employee).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create employee"})
	}

	h.guard.CommitCreate(c.Request().Context(), tenantID, models.KindUsers, 1)
	events.Emit("employees.created", &employee)

	return c.JSON(http.StatusCreated, employee)
}

// ListEmployees lists the firm's employee accounts.
// @Summary List employees
// @Description List employee accounts of the current firm
// @Tags employees
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} access.Refusal "Insufficient permission"
// @Router /api/v1/employees [get]
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	actor := apimiddleware.GetActor(c)
	if r := h.guard.Check(actor, models.CategoryEmployees, models.ActionView, access.AuthorizeOpts{}); r != nil {
		return apimiddleware.Deny(c, r)
	}

	tenantID, r := h.guard.Tenant(c.Request().Context(), actor)
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	var employees []models.User
	if err := h.db.Where("owner_id = ? AND is_deleted = false", tenantID).Find(&employees).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch employees"})
	}

	return c.JSON(http.StatusOK, employees)
}

// GetEmployee returns one employee of the firm.
// @Summary Get employee
// @Description Get one employee account of the current firm
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.User
// @Failure 403 {object} access.Refusal "Insufficient permission or foreign firm"
// @Failure 404 {object} map[string]string "Employee not found"
// @Router /api/v1/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	employee, refusal, err := h.loadEmployee(c, models.ActionView)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Employee not found"})
	}
	if refusal != nil {
		return apimiddleware.Deny(c, refusal)
	}
	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployee updates role, department, activation state or permissions.
// Changing the role resets the matrix to the new role's defaults unless the
// request carries an explicit permission set.
// @Summary Update employee
// @Description Update an employee's role, department, activation or permissions
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body validator.EmployeeUpdateRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} access.Refusal "Insufficient permission or foreign firm"
// @Failure 404 {object} map[string]string "Employee not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	employee, refusal, err := h.loadEmployee(c, models.ActionEdit)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Employee not found"})
	}
	if refusal != nil {
		return apimiddleware.Deny(c, refusal)
	}

	var req validator.EmployeeUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.Role != "" && models.UserRole(req.Role) != employee.Role {
		if models.UserRole(req.Role) == models.UserRoleOwner {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Employees cannot hold the owner role"})
		}
		employee.Role = models.UserRole(req.Role)
		employee.Permissions = datatypes.NewJSONType(models.DefaultPermissions(employee.Role))
	}
	if req.Permissions != nil {
		employee.Permissions = datatypes.NewJSONType(*req.Permissions)
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
		if !employee.IsActive {
			// Deactivation revokes open sessions immediately.
			h.db.Where("user_id = ?", employee.ID).Delete(&models.AuthSession{})
		}
	}

	if err := h.db.Save(employee).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update employee"})
	}

	events.Emit("employees.updated", employee)
	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee account and frees its seat.
// @Summary Delete employee
// @Description Remove an employee account from the firm
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 204 "No content"
// @Failure 403 {object} access.Refusal "Insufficient permission or foreign firm"
// @Failure 404 {object} map[string]string "Employee not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	employee, refusal, err := h.loadEmployee(c, models.ActionDelete)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Employee not found"})
	}
	if refusal != nil {
		return apimiddleware.Deny(c, refusal)
	}

	if err := h.db.Model(employee).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false, "deleted_at": time.Now()}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete employee"})
	}

	h.db.Where("user_id = ?", employee.ID).Delete(&models.AuthSession{})
	events.Emit("employees.deleted", employee.ID)

	return c.NoContent(http.StatusNoContent)
}

// loadEmployee fetches the target employee and runs the guard against it. A
// target in another firm yields a tenant_mismatch refusal, not a 404.
func (h *EmployeeHandler) loadEmployee(c echo.Context, action models.Action) (*models.User, *access.Refusal, error) {
	id := c.Param("id")

	var employee models.User
	if err := h.db.Where("id = ? AND account_type = ? AND is_deleted = false",
		id, models.AccountTypeEmployee).First(&employee).Error; err != nil {
		return nil, nil, err
	}

	targetTenant := ""
	if employee.OwnerID != nil {
		targetTenant = *employee.OwnerID
	}

	actor := apimiddleware.GetActor(c)
	if r := h.guard.CheckEntity(c.Request().Context(), actor, models.CategoryEmployees, action, targetTenant); r != nil {
		return nil, r, nil
	}
	return &employee, nil, nil
}
