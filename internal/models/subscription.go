package models

import "time"

// ResourceKind names a quota-bound resource. Storage is counted in whole
// megabytes; every other kind is a row count.
type ResourceKind string

const (
	KindCases     ResourceKind = "cases"
	KindClients   ResourceKind = "clients"
	KindDocuments ResourceKind = "documents"
	KindStorageMB ResourceKind = "storage"
	KindUsers     ResourceKind = "users"
)

// ResourceKinds lists every quota-bound kind, in reconciliation order.
var ResourceKinds = []ResourceKind{KindCases, KindClients, KindDocuments, KindStorageMB, KindUsers}

// Unlimited is the sentinel limit value meaning no cap on a resource kind.
const Unlimited = -1

// Limits holds the per-kind caps of a plan. -1 means unlimited.
type Limits struct {
	Cases     int64 `json:"cases"`
	Clients   int64 `json:"clients"`
	Documents int64 `json:"documents"`
	StorageMB int64 `json:"storageMb"`
	Users     int64 `json:"users"`
}

// UsageCounters mirrors Limits with the current consumption per kind.
type UsageCounters struct {
	Cases     int64 `json:"cases"`
	Clients   int64 `json:"clients"`
	Documents int64 `json:"documents"`
	StorageMB int64 `json:"storageMb"`
	Users     int64 `json:"users"`
}

func (l Limits) Kind(k ResourceKind) int64 {
	switch k {
	case KindCases:
		return l.Cases
	case KindClients:
		return l.Clients
	case KindDocuments:
		return l.Documents
	case KindStorageMB:
		return l.StorageMB
	case KindUsers:
		return l.Users
	default:
		return 0
	}
}

func (u UsageCounters) Kind(k ResourceKind) int64 {
	switch k {
	case KindCases:
		return u.Cases
	case KindClients:
		return u.Clients
	case KindDocuments:
		return u.Documents
	case KindStorageMB:
		return u.StorageMB
	case KindUsers:
		return u.Users
	default:
		return 0
	}
}

// Subscription is the single plan record of a tenant. Limit and usage live in
// explicit columns so usage increments can be issued as atomic additive
// updates instead of read-modify-write cycles.
type Subscription struct {
	Base
	TenantID       string        `gorm:"type:uuid;not null;uniqueIndex" json:"tenantId"`
	Tenant         *User         `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	PlanKey        PlanKey       `gorm:"not null;default:'free'" json:"plan"`
	LimitCases     int64         `gorm:"not null;default:0" json:"limitCases"`
	LimitClients   int64         `gorm:"not null;default:0" json:"limitClients"`
	LimitDocuments int64         `gorm:"not null;default:0" json:"limitDocuments"`
	LimitStorageMB int64         `gorm:"not null;default:0" json:"limitStorageMb"`
	LimitUsers     int64         `gorm:"not null;default:0" json:"limitUsers"`
	UsageCases     int64         `gorm:"not null;default:0" json:"usageCases"`
	UsageClients   int64         `gorm:"not null;default:0" json:"usageClients"`
	UsageDocuments int64         `gorm:"not null;default:0" json:"usageDocuments"`
	UsageStorageMB int64         `gorm:"not null;default:0" json:"usageStorageMb"`
	UsageUsers     int64         `gorm:"not null;default:0" json:"usageUsers"`
	IsActive       bool          `gorm:"not null;default:true" json:"isActive"`
	StartDate      time.Time     `gorm:"not null" json:"startDate"`
	EndDate        time.Time     `gorm:"not null" json:"endDate"`
	PaymentStatus  PaymentStatus `gorm:"not null;default:'PENDING'" json:"paymentStatus"`
}

// Limits returns the limit columns as a Limits value.
func (s *Subscription) Limits() Limits {
	return Limits{
		Cases:     s.LimitCases,
		Clients:   s.LimitClients,
		Documents: s.LimitDocuments,
		StorageMB: s.LimitStorageMB,
		Users:     s.LimitUsers,
	}
}

// Usage returns the usage columns as a UsageCounters value.
func (s *Subscription) Usage() UsageCounters {
	return UsageCounters{
		Cases:     s.UsageCases,
		Clients:   s.UsageClients,
		Documents: s.UsageDocuments,
		StorageMB: s.UsageStorageMB,
		Users:     s.UsageUsers,
	}
}

// ApplyPlan replaces the limit columns with the plan's limits. Usage is
// preserved: an upgrade never resets what the tenant has already consumed.
func (s *Subscription) ApplyPlan(p Plan, now time.Time) {
	s.PlanKey = p.Key
	s.LimitCases = p.Limits.Cases
	s.LimitClients = p.Limits.Clients
	s.LimitDocuments = p.Limits.Documents
	s.LimitStorageMB = p.Limits.StorageMB
	s.LimitUsers = p.Limits.Users
	s.IsActive = true
	s.StartDate = now
	s.EndDate = now.AddDate(0, p.DurationMonths, 0)
	s.PaymentStatus = PaymentStatusSucceeded
}

// UsageColumn maps a resource kind to its usage column for atomic increments.
func UsageColumn(k ResourceKind) string {
	switch k {
	case KindCases:
		return "usage_cases"
	case KindClients:
		return "usage_clients"
	case KindDocuments:
		return "usage_documents"
	case KindStorageMB:
		return "usage_storage_mb"
	case KindUsers:
		return "usage_users"
	default:
		return ""
	}
}

// Payment is a plan purchase order. The gateway redirect flow is external; the
// row tracks the order from checkout until the webhook settles it.
type Payment struct {
	Base
	TenantID   string        `gorm:"type:uuid;not null;index" json:"tenantId"`
	Tenant     *User         `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	PlanKey    PlanKey       `gorm:"not null" json:"plan"`
	Amount     int64         `gorm:"not null" json:"amount"` // minor currency units
	Currency   string        `gorm:"not null;default:'USD'" json:"currency"`
	Status     PaymentStatus `gorm:"not null;default:'PENDING'" json:"status"`
	OrderRef   string        `gorm:"uniqueIndex;not null" json:"orderRef"`
	GatewayRef string        `json:"gatewayRef"`
}
