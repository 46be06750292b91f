package access

import (
	"testing"

	"lexdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAuthorizeOwnerBypassesMatrix(t *testing.T) {
	// An owner with an entirely empty (all-denying) matrix is still allowed
	// on every category/action pair.
	owner := ownerActor("t1")
	owner.Permissions = datatypes.NewJSONType(models.PermissionSet{})

	categories := []models.Category{
		models.CategoryCases, models.CategoryClients, models.CategoryAppointments,
		models.CategoryDocuments, models.CategoryFinancial, models.CategoryEmployees,
		models.CategoryReports, models.CategoryFirmSettings,
	}
	actions := []models.Action{models.ActionView, models.ActionCreate, models.ActionEdit, models.ActionDelete}

	for _, c := range categories {
		for _, a := range actions {
			assert.Nil(t, Authorize(owner, c, a, AuthorizeOpts{}), "owner denied on %s/%s", c, a)
		}
	}
}

func TestAuthorizeEmployeeFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		perms    models.PermissionSet
		category models.Category
		action   models.Action
		allowed  bool
	}{
		{
			name:     "explicit true allows",
			perms:    models.PermissionSet{Clients: models.Grants{Create: true}},
			category: models.CategoryClients,
			action:   models.ActionCreate,
			allowed:  true,
		},
		{
			name:     "explicit false denies",
			perms:    models.PermissionSet{Clients: models.Grants{Create: false, View: true}},
			category: models.CategoryClients,
			action:   models.ActionCreate,
		},
		{
			name:     "missing category denies",
			perms:    models.PermissionSet{},
			category: models.CategoryCases,
			action:   models.ActionView,
		},
		{
			name:     "grant in one category does not leak into another",
			perms:    models.PermissionSet{Cases: models.Grants{View: true, Create: true, Edit: true, Delete: true}},
			category: models.CategoryFinancial,
			action:   models.ActionView,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := employeeActor("e1", "t1", models.UserRoleLawyer, tt.perms)
			ref := Authorize(emp, tt.category, tt.action, AuthorizeOpts{})
			if tt.allowed {
				assert.Nil(t, ref)
			} else {
				require.NotNil(t, ref)
				assert.Equal(t, ReasonInsufficientPermission, ref.Reason)
			}
		})
	}
}

func TestAuthorizeDisabledAccountRefusedFirst(t *testing.T) {
	// A disabled employee with a fully granting matrix is refused with
	// account_disabled, not insufficient_permission: the active check runs
	// before any matrix lookup.
	full := models.DefaultPermissions(models.UserRolePartner)
	emp := employeeActor("e1", "t1", models.UserRolePartner, full)
	emp.IsActive = false

	ref := Authorize(emp, models.CategoryCases, models.ActionView, AuthorizeOpts{})
	require.NotNil(t, ref)
	assert.Equal(t, ReasonAccountDisabled, ref.Reason)

	// Disabled owners are refused too.
	owner := ownerActor("t1")
	owner.IsActive = false
	ref = Authorize(owner, models.CategoryCases, models.ActionView, AuthorizeOpts{})
	require.NotNil(t, ref)
	assert.Equal(t, ReasonAccountDisabled, ref.Reason)
}

func TestAuthorizeOwnerOnly(t *testing.T) {
	full := models.DefaultPermissions(models.UserRolePartner)
	emp := employeeActor("e1", "t1", models.UserRolePartner, full)

	ref := Authorize(emp, models.CategoryFirmSettings, models.ActionEdit, AuthorizeOpts{OwnerOnly: true})
	require.NotNil(t, ref)
	assert.Equal(t, ReasonOwnerOnly, ref.Reason)

	assert.Nil(t, Authorize(ownerActor("t1"), models.CategoryFirmSettings, models.ActionEdit, AuthorizeOpts{OwnerOnly: true}))
}

func TestAuthorizeNilActor(t *testing.T) {
	ref := Authorize(nil, models.CategoryCases, models.ActionView, AuthorizeOpts{})
	require.NotNil(t, ref)
	assert.Equal(t, ReasonUnauthenticated, ref.Reason)
}

func TestIsOwnerOfTenant(t *testing.T) {
	owner := ownerActor("t1")
	assert.True(t, IsOwnerOfTenant(owner, "t1"))
	assert.False(t, IsOwnerOfTenant(owner, "t2"))

	emp := employeeActor("e1", "t1", models.UserRoleLawyer, models.PermissionSet{})
	assert.False(t, IsOwnerOfTenant(emp, "t1"))
}

func TestCheckTenantMatch(t *testing.T) {
	emp := employeeActor("e1", "t1", models.UserRoleLawyer, models.PermissionSet{})
	assert.Nil(t, CheckTenantMatch(emp, "t1"))

	ref := CheckTenantMatch(emp, "t2")
	require.NotNil(t, ref)
	assert.Equal(t, ReasonTenantMismatch, ref.Reason)
}
