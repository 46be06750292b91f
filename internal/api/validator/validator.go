package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"lexdesk/internal/models"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("user_role", validateUserRole)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("account_type", validateAccountType)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("case_status", validateCaseStatus)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("appointment_status", validateAppointmentStatus)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("plan_key", validatePlanKey)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidUserRole(models.UserRole(fl.Field().String()))
}

func validateAccountType(fl playgroundvalidator.FieldLevel) bool {
	t := fl.Field().String()
	return t == string(models.AccountTypeOwner) || t == string(models.AccountTypeEmployee)
}

func validateCaseStatus(fl playgroundvalidator.FieldLevel) bool {
	status := models.CaseStatus(fl.Field().String())
	switch status {
	case models.CaseStatusOpen, models.CaseStatusPending, models.CaseStatusClosed, models.CaseStatusArchived:
		return true
	}
	return false
}

func validateAppointmentStatus(fl playgroundvalidator.FieldLevel) bool {
	status := models.AppointmentStatus(fl.Field().String())
	switch status {
	case models.AppointmentStatusScheduled, models.AppointmentStatusCompleted, models.AppointmentStatusCancelled:
		return true
	}
	return false
}

func validatePlanKey(fl playgroundvalidator.FieldLevel) bool {
	_, ok := models.GetPlan(models.PlanKey(fl.Field().String()))
	return ok
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// ClientRequest Request validation structs based on models
type ClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CaseRequest struct {
	Title      string `json:"title" validate:"required"`
	Number     string `json:"number"`
	ClientID   string `json:"clientId" validate:"required,uuid"`
	AssigneeID string `json:"assigneeId" validate:"omitempty,uuid"`
	Status     string `json:"status" validate:"required,case_status"`
	CourtName  string `json:"courtName"`
	Notes      string `json:"notes"`
}

type CourtSessionRequest struct {
	CaseID    string    `json:"caseId" validate:"required,uuid"`
	CourtName string    `json:"courtName" validate:"required"`
	HeldAt    time.Time `json:"heldAt" validate:"required"`
	Notes     string    `json:"notes"`
}

type AppointmentRequest struct {
	Title    string    `json:"title" validate:"required"`
	ClientID string    `json:"clientId" validate:"omitempty,uuid"`
	StartsAt time.Time `json:"startsAt" validate:"required"`
	Minutes  int       `json:"minutes" validate:"min=5"`
	Status   string    `json:"status" validate:"required,appointment_status"`
	Location string    `json:"location"`
}

type EmployeeRequest struct {
	Email       string                `json:"email" validate:"required,email"`
	Password    string                `json:"password" validate:"required,min=8"`
	FirstName   string                `json:"firstName" validate:"required"`
	LastName    string                `json:"lastName"`
	Role        string                `json:"role" validate:"required,user_role"`
	Department  string                `json:"department"`
	Permissions *models.PermissionSet `json:"permissions"`
}

type EmployeeUpdateRequest struct {
	FirstName   string                `json:"firstName"`
	LastName    string                `json:"lastName"`
	Role        string                `json:"role" validate:"omitempty,user_role"`
	Department  string                `json:"department"`
	IsActive    *bool                 `json:"isActive"`
	Permissions *models.PermissionSet `json:"permissions"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,plan_key"`
}
