package models

import (
	"fmt"
	"time"

	"lexdesk/internal/events"

	"gorm.io/gorm"
)

// nowFunc is swapped out by tests that need a fixed clock.
var nowFunc = time.Now

// Client is a firm's client. TenantID is the owning firm's owner id; every
// tenant child entity carries the same column, and cross-tenant references
// between children are forbidden.
type Client struct {
	Base
	TenantID   string `gorm:"type:uuid;not null;index" json:"tenantId" validate:"omitempty,uuid"`
	Name       string `gorm:"not null" json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	Cases      []Case `gorm:"foreignKey:ClientID" json:"cases,omitempty"`
}

type Case struct {
	Base
	TenantID      string         `gorm:"type:uuid;not null;index" json:"tenantId" validate:"omitempty,uuid"`
	ClientID      string         `gorm:"type:uuid;not null" json:"clientId" validate:"required,uuid"`
	Client        *Client        `json:"client,omitempty"`
	Title         string         `gorm:"not null" json:"title" validate:"required,min=2"`
	CaseNumber    string         `gorm:"index" json:"caseNumber"`
	CourtName     string         `json:"courtName"`
	CaseType      string         `json:"caseType"`
	Status        CaseStatus     `gorm:"not null;default:'OPEN'" json:"status" validate:"omitempty,case_status"`
	OpposingParty string         `json:"opposingParty"`
	AssigneeID    *string        `gorm:"type:uuid;default:NULL" json:"assigneeId,omitempty" validate:"omitempty,uuid"`
	Assignee      *User          `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Sessions      []CourtSession `gorm:"foreignKey:CaseID" json:"sessions,omitempty"`
	Documents     []Document     `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

type CourtSession struct {
	Base
	TenantID  string    `gorm:"type:uuid;not null;index" json:"tenantId" validate:"omitempty,uuid"`
	CaseID    string    `gorm:"type:uuid;not null" json:"caseId" validate:"required,uuid"`
	Case      *Case     `json:"case,omitempty"`
	Date      time.Time `gorm:"not null" json:"date" validate:"required"`
	CourtRoom string    `json:"courtRoom"`
	Notes     string    `json:"notes"`
	Result    string    `json:"result"`
}

type Appointment struct {
	Base
	TenantID string            `gorm:"type:uuid;not null;index" json:"tenantId" validate:"omitempty,uuid"`
	ClientID *string           `gorm:"type:uuid;default:NULL" json:"clientId,omitempty" validate:"omitempty,uuid"`
	Client   *Client           `json:"client,omitempty"`
	Title    string            `gorm:"not null" json:"title" validate:"required,min=2"`
	StartsAt time.Time         `gorm:"not null" json:"startsAt" validate:"required"`
	Minutes  int               `gorm:"not null;default:30" json:"minutes" validate:"min=5"`
	Location string            `json:"location"`
	Status   AppointmentStatus `gorm:"not null;default:'SCHEDULED'" json:"status" validate:"omitempty,appointment_status"`
}

// Document is an uploaded file stored in object storage. SizeBytes feeds the
// storage quota (whole megabytes, rounded up per file).
type Document struct {
	Base
	TenantID     string  `gorm:"type:uuid;not null;index" json:"tenantId" validate:"omitempty,uuid"`
	CaseID       *string `gorm:"type:uuid;default:NULL" json:"caseId,omitempty" validate:"omitempty,uuid"`
	Case         *Case   `json:"case,omitempty"`
	UploadedByID string  `gorm:"type:uuid;not null" json:"uploadedById"`
	UploadedBy   *User   `gorm:"foreignKey:UploadedByID" json:"uploadedBy,omitempty"`
	Name         string  `gorm:"not null" json:"name" validate:"required"`
	Path         string  `gorm:"not null" json:"path" validate:"required"`
	SizeBytes    int64   `gorm:"not null" json:"sizeBytes" validate:"required,min=1"`
	ContentType  string  `gorm:"not null" json:"contentType" validate:"required"`
	SignedURL    string  `gorm:"-" json:"signedUrl,omitempty"` // Virtual field
}

// SizeMB returns the document's storage charge in whole megabytes, rounded up.
func (d *Document) SizeMB() int64 {
	const mb = 1 << 20
	return (d.SizeBytes + mb - 1) / mb
}

func (d *Document) AfterFind(tx *gorm.DB) error {
	registryMu.RLock()
	generator := urlGenerator
	registryMu.RUnlock()

	if generator != nil {
		// Generate URL with 1-hour expiry
		url, err := generator.GetSignedURL(tx.Statement.Context, d.Path, time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate signed URL: %w", err)
		}
		d.SignedURL = url
	}
	return nil
}

// BeforeCreate rejects cases whose client belongs to another firm. A foreign
// reference never produces a cross-tenant row, whoever sends it.
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	var n int64
	if err := tx.Model(&Client{}).
		Where("id = ? AND tenant_id = ? AND is_deleted = false", c.ClientID, c.TenantID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("client %s does not belong to this firm", c.ClientID)
	}
	return nil
}

func (s *CourtSession) BeforeCreate(tx *gorm.DB) error {
	if err := s.Base.BeforeCreate(tx); err != nil {
		return err
	}
	var n int64
	if err := tx.Model(&Case{}).
		Where("id = ? AND tenant_id = ? AND is_deleted = false", s.CaseID, s.TenantID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("case %s does not belong to this firm", s.CaseID)
	}
	return nil
}

func (c *Client) AfterCreate(tx *gorm.DB) error {
	events.Emit("client.created", c)
	return nil
}

func (c *Case) AfterCreate(tx *gorm.DB) error {
	events.Emit("case.created", c)
	return nil
}
