package services

import (
	"context"
	"fmt"
	"time"

	"lexdesk/internal/events"
	"lexdesk/internal/models"
	"lexdesk/internal/utils"
	"lexdesk/internal/utils/logger"

	"gorm.io/gorm"
)

// PaymentEvent is the normalized form of a gateway callback: payment
// succeeded or failed for order X. The redirect flow itself is external.
type PaymentEvent struct {
	OrderRef   string `json:"orderRef"`
	GatewayRef string `json:"gatewayRef"`
	Succeeded  bool   `json:"succeeded"`
}

// SubscriptionService owns the subscription lifecycle: created free at
// signup, upgraded by settled purchases, deactivated on cancellation or
// expiry. Never hard-deleted.
type SubscriptionService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		db:  db,
		log: logger.New("SUBSCRIPTIONS"),
	}
}

// RegisterEventHandlers subscribes to payment-gateway events on the default
// bus. Called once during bootstrap.
func (s *SubscriptionService) RegisterEventHandlers() {
	events.On("payment.succeeded", func(data interface{}) {
		ev, ok := data.(PaymentEvent)
		if !ok {
			return
		}
		if err := s.settlePayment(context.Background(), ev); err != nil {
			_ = s.log.Error("failed to settle payment %s", err, ev.OrderRef)
		}
	})
	events.On("payment.failed", func(data interface{}) {
		ev, ok := data.(PaymentEvent)
		if !ok {
			return
		}
		if err := s.failPayment(context.Background(), ev); err != nil {
			_ = s.log.Error("failed to record failed payment %s", err, ev.OrderRef)
		}
	})
}

// CreateFreeSubscription sets up the subscription every new tenant starts
// with. Runs inside the signup transaction so a tenant never exists without
// one.
func (s *SubscriptionService) CreateFreeSubscription(tx *gorm.DB, tenantID string) error {
	sub := models.NewFreeSubscription(tenantID)
	return tx.Create(sub).Error
}

// Checkout opens a pending payment order for a plan purchase. The caller
// redirects the owner to the gateway; the webhook settles the order.
func (s *SubscriptionService) Checkout(ctx context.Context, tenantID string, planKey models.PlanKey, currency string) (*models.Payment, error) {
	plan, ok := models.GetPlan(planKey)
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", planKey)
	}
	if plan.Key == models.PlanFree {
		return nil, fmt.Errorf("free plan cannot be purchased")
	}

	ref, err := utils.GenerateRandomString(24)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		TenantID: tenantID,
		PlanKey:  plan.Key,
		Amount:   plan.PriceMonthly * int64(plan.DurationMonths),
		Currency: currency,
		Status:   models.PaymentStatusPending,
		OrderRef: ref,
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}

	s.log.Info("checkout opened: tenant %s plan %s order %s", tenantID, plan.Key, ref)
	return payment, nil
}

// settlePayment marks the order succeeded and applies the purchased plan to
// the tenant's subscription: limits replaced, usage preserved.
func (s *SubscriptionService) settlePayment(ctx context.Context, ev PaymentEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("order_ref = ? AND is_deleted = false", ev.OrderRef).First(&payment).Error; err != nil {
			return fmt.Errorf("order %s not found: %w", ev.OrderRef, err)
		}
		if payment.Status == models.PaymentStatusSucceeded {
			// Gateway retries deliver the same event more than once.
			return nil
		}

		payment.Status = models.PaymentStatusSucceeded
		payment.GatewayRef = ev.GatewayRef
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		plan, ok := models.GetPlan(payment.PlanKey)
		if !ok {
			return fmt.Errorf("order %s references unknown plan %q", ev.OrderRef, payment.PlanKey)
		}

		var sub models.Subscription
		if err := tx.Where("tenant_id = ? AND is_deleted = false", payment.TenantID).First(&sub).Error; err != nil {
			return err
		}
		sub.ApplyPlan(plan, time.Now())
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		s.log.Success("plan %s applied to tenant %s (order %s)", plan.Key, payment.TenantID, ev.OrderRef)
		events.Emit("subscription.upgraded", &sub)
		return nil
	})
}

func (s *SubscriptionService) failPayment(ctx context.Context, ev PaymentEvent) error {
	res := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_ref = ? AND status = ?", ev.OrderRef, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusFailed,
			"gateway_ref": ev.GatewayRef,
		})
	if res.Error != nil {
		return res.Error
	}
	s.log.Warn("payment failed for order %s", ev.OrderRef)
	return nil
}

// Cancel deactivates the tenant's subscription. The record is kept; a later
// purchase reactivates it.
func (s *SubscriptionService) Cancel(ctx context.Context, tenantID string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("tenant_id = ? AND is_active = true AND is_deleted = false", tenantID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.log.Info("subscription cancelled for tenant %s", tenantID)
	return nil
}

// ExpireLapsed deactivates every subscription past its end date and marks it
// expired. Run periodically by the task scheduler.
func (s *SubscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("is_active = true AND end_date <= ? AND is_deleted = false", time.Now()).
		Updates(map[string]interface{}{
			"is_active":      false,
			"payment_status": models.PaymentStatusExpired,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("deactivated %d lapsed subscriptions", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// CurrentSubscription returns the tenant's subscription row regardless of
// active state, for the billing screen.
func (s *SubscriptionService) CurrentSubscription(ctx context.Context, tenantID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND is_deleted = false", tenantID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
