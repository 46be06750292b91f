package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSetFailsClosed(t *testing.T) {
	var empty PermissionSet

	for _, c := range []Category{CategoryCases, CategoryClients, CategoryAppointments,
		CategoryDocuments, CategoryFinancial, CategoryEmployees, CategoryReports, CategoryFirmSettings} {
		for _, a := range []Action{ActionView, ActionCreate, ActionEdit, ActionDelete} {
			assert.False(t, empty.Allows(c, a), "empty set must deny %s:%s", c, a)
		}
	}

	// Unknown categories and actions never grant anything.
	full := DefaultPermissions(UserRolePartner)
	assert.False(t, full.Allows("billing", ActionView))
	assert.False(t, full.Allows(CategoryCases, "export"))
}

func TestDefaultPermissionsPerRole(t *testing.T) {
	tests := []struct {
		role    UserRole
		allowed [][2]string
		denied  [][2]string
	}{
		{
			role:    UserRoleSecretary,
			allowed: [][2]string{{"appointments", "create"}, {"clients", "view"}},
			denied:  [][2]string{{"financial", "view"}, {"employees", "view"}},
		},
		{
			role:    UserRoleAccountant,
			allowed: [][2]string{{"financial", "delete"}, {"reports", "view"}},
			denied:  [][2]string{{"cases", "create"}, {"firmSettings", "view"}},
		},
		{
			role:    UserRoleIntern,
			allowed: [][2]string{{"cases", "view"}},
			denied:  [][2]string{{"cases", "delete"}, {"clients", "create"}},
		},
	}

	for _, tt := range tests {
		perms := DefaultPermissions(tt.role)
		for _, pair := range tt.allowed {
			assert.True(t, perms.Allows(Category(pair[0]), Action(pair[1])),
				"%s should allow %s:%s", tt.role, pair[0], pair[1])
		}
		for _, pair := range tt.denied {
			assert.False(t, perms.Allows(Category(pair[0]), Action(pair[1])),
				"%s should deny %s:%s", tt.role, pair[0], pair[1])
		}
	}
}

func TestDefaultPermissionsUnknownRoleIsEmpty(t *testing.T) {
	perms := DefaultPermissions("paralegal_2")
	assert.False(t, perms.Allows(CategoryCases, ActionView))
}

func TestApplyPlanReplacesLimitsPreservesUsage(t *testing.T) {
	sub := NewFreeSubscription("tenant-1")
	sub.UsageCases = 7
	sub.UsageStorageMB = 42

	pro, ok := GetPlan(PlanProfessional)
	require.True(t, ok)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub.ApplyPlan(pro, now)

	assert.Equal(t, pro.Limits.Cases, sub.LimitCases)
	assert.Equal(t, pro.Limits.StorageMB, sub.LimitStorageMB)
	assert.Equal(t, int64(7), sub.UsageCases, "usage survives a plan change")
	assert.Equal(t, int64(42), sub.UsageStorageMB)
	assert.True(t, sub.IsActive)
	assert.Equal(t, now, sub.StartDate)
	assert.True(t, sub.EndDate.After(now))
}

func TestNewFreeSubscription(t *testing.T) {
	sub := NewFreeSubscription("tenant-9")

	free, _ := GetPlan(PlanFree)
	assert.Equal(t, "tenant-9", sub.TenantID)
	assert.Equal(t, PlanFree, sub.PlanKey)
	assert.Equal(t, free.Limits.Clients, sub.LimitClients)
	assert.Zero(t, sub.UsageCases)
	assert.Zero(t, sub.UsageUsers)
	assert.True(t, sub.IsActive)
}

func TestEnterpriseIsUnlimited(t *testing.T) {
	ent, ok := GetPlan(PlanEnterprise)
	require.True(t, ok)
	for _, kind := range ResourceKinds {
		assert.Equal(t, int64(Unlimited), ent.Limits.Kind(kind), "enterprise %s", kind)
	}
}

func TestDocumentSizeMBRoundsUp(t *testing.T) {
	tests := []struct {
		bytes int64
		mb    int64
	}{
		{1, 1},
		{1 << 20, 1},
		{1<<20 + 1, 2},
		{10 << 20, 10},
	}
	for _, tt := range tests {
		d := Document{SizeBytes: tt.bytes}
		assert.Equal(t, tt.mb, d.SizeMB(), "%d bytes", tt.bytes)
	}
}

func TestUsageColumnCoversEveryKind(t *testing.T) {
	for _, kind := range ResourceKinds {
		assert.NotEmpty(t, UsageColumn(kind), "kind %s needs a usage column", kind)
	}
	assert.Empty(t, UsageColumn("widgets"))
}
