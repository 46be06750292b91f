package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is an authenticated actor: either the firm owner (whose id is the tenant
// key) or an employee referencing its owner. Permissions are only meaningful on
// employee accounts; owners are implicitly all-capable within their own tenant.
type User struct {
	Base
	Email       string                             `gorm:"uniqueIndex;not null" json:"email"`
	Password    string                             `gorm:"not null" json:"-"`
	FirstName   string                             `json:"firstName"`
	LastName    string                             `json:"lastName"`
	AccountType AccountType                        `gorm:"not null;default:'owner'" json:"accountType"`
	OwnerID     *string                            `gorm:"type:uuid;index;default:NULL" json:"ownerId,omitempty"`
	Owner       *User                              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Role        UserRole                           `gorm:"not null;default:'owner'" json:"role"`
	Department  string                             `json:"department"`
	IsActive    bool                               `gorm:"not null;default:true" json:"isActive"`
	Permissions datatypes.JSONType[PermissionSet]  `gorm:"type:jsonb" json:"permissions"`
	Employees   []User                             `gorm:"foreignKey:OwnerID" json:"employees,omitempty"`
}

// IsOwner reports whether the account is a firm owner.
func (u *User) IsOwner() bool {
	return u.AccountType == AccountTypeOwner
}

// Grants returns the decoded permission matrix.
func (u *User) Grants() PermissionSet {
	return u.Permissions.Data()
}

type PasswordReset struct {
	Base
	User      *User     `json:"user,omitempty"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	Code      string    `gorm:"not null" json:"code"`
	Used      bool      `gorm:"default:false" json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthSession records every issued token pair so a presented JWT can be checked
// against current server state and revoked by deleting the row.
type AuthSession struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	TenantID  string    `gorm:"type:uuid;not null;index" json:"tenantId"`
	Token     string    `gorm:"not null" json:"token"`
	Refresh   string    `gorm:"not null" json:"refresh"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
