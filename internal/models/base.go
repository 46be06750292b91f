package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// AccountType distinguishes firm owners from their employees. An owner account's
// id doubles as the tenant key for every record the firm creates.
type AccountType string

const (
	AccountTypeOwner    AccountType = "owner"
	AccountTypeEmployee AccountType = "employee"
)

type UserRole string

const (
	UserRoleOwner          UserRole = "owner"
	UserRolePartner        UserRole = "partner"
	UserRoleSeniorLawyer   UserRole = "senior_lawyer"
	UserRoleLawyer         UserRole = "lawyer"
	UserRoleJuniorLawyer   UserRole = "junior_lawyer"
	UserRoleLegalAssistant UserRole = "legal_assistant"
	UserRoleSecretary      UserRole = "secretary"
	UserRoleAccountant     UserRole = "accountant"
	UserRoleIntern         UserRole = "intern"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleOwner, UserRolePartner, UserRoleSeniorLawyer, UserRoleLawyer,
		UserRoleJuniorLawyer, UserRoleLegalAssistant, UserRoleSecretary,
		UserRoleAccountant, UserRoleIntern:
		return true
	default:
		return false
	}
}

type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "OPEN"
	CaseStatusPending  CaseStatus = "PENDING"
	CaseStatusClosed   CaseStatus = "CLOSED"
	CaseStatusArchived CaseStatus = "ARCHIVED"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)
