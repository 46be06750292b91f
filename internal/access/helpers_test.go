package access

import (
	"time"

	"lexdesk/internal/models"

	"gorm.io/datatypes"
)

var timeNow = time.Now

func ownerActor(id string) *models.User {
	u := &models.User{
		AccountType: models.AccountTypeOwner,
		Role:        models.UserRoleOwner,
		IsActive:    true,
	}
	u.ID = id
	return u
}

func employeeActor(id, ownerID string, role models.UserRole, perms models.PermissionSet) *models.User {
	u := &models.User{
		AccountType: models.AccountTypeEmployee,
		OwnerID:     &ownerID,
		Role:        role,
		IsActive:    true,
		Permissions: datatypes.NewJSONType(perms),
	}
	u.ID = id
	return u
}

func activeSub(tenantID string, limits models.Limits, usage models.UsageCounters) *models.Subscription {
	return &models.Subscription{
		TenantID:       tenantID,
		PlanKey:        models.PlanProfessional,
		LimitCases:     limits.Cases,
		LimitClients:   limits.Clients,
		LimitDocuments: limits.Documents,
		LimitStorageMB: limits.StorageMB,
		LimitUsers:     limits.Users,
		UsageCases:     usage.Cases,
		UsageClients:   usage.Clients,
		UsageDocuments: usage.Documents,
		UsageStorageMB: usage.StorageMB,
		UsageUsers:     usage.Users,
		IsActive:       true,
		StartDate:      timeNow().Add(-24 * time.Hour),
		EndDate:        timeNow().Add(30 * 24 * time.Hour),
		PaymentStatus:  models.PaymentStatusSucceeded,
	}
}
