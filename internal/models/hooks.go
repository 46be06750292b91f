package models

import (
	"lexdesk/internal/events"

	console "lexdesk/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("MODELS")

func (s *Subscription) AfterCreate(tx *gorm.DB) error {
	log.Info("Subscription created for tenant %s (%s)", s.TenantID, s.PlanKey)
	events.Emit("subscription.created", s)
	return nil
}

func (p *Payment) AfterCreate(tx *gorm.DB) error {
	events.Emit("payment.created", p)
	return nil
}
