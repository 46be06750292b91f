package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"lexdesk/internal/access"
	"lexdesk/internal/models"
	"lexdesk/internal/services"
	"lexdesk/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler processes background jobs: usage reconciliation and
// subscription expiry.
type TaskHandler struct {
	db            *gorm.DB
	guard         *access.Guard
	subscriptions *services.SubscriptionService
	logger        *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, guard *access.Guard, subscriptions *services.SubscriptionService) *TaskHandler {
	return &TaskHandler{
		db:            db,
		guard:         guard,
		subscriptions: subscriptions,
		logger:        logger.New("task_handler"),
	}
}

// HandleUsageReconcile recounts usage from the entity tables. Counter drift
// is expected under the soft-limit policy; this pass converges it. A payload
// naming a tenant reconciles just that firm, an empty payload sweeps all.
func (h *TaskHandler) HandleUsageReconcile(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("bad reconcile payload: %w", err)
		}
	}

	tenantIDs := []string{payload.TenantID}
	if payload.TenantID == "" {
		var err error
		tenantIDs, err = models.TenantIDs(h.db.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}
	}

	var failed int
	for _, tenantID := range tenantIDs {
		if _, err := h.guard.Quota().RefreshUsageStats(ctx, tenantID); err != nil {
			// One broken tenant must not stall the sweep.
			_ = h.logger.Error("reconcile failed for tenant %s", err, tenantID)
			failed++
		}
	}

	h.logger.Info("usage reconcile done: %d tenants, %d failed", len(tenantIDs), failed)
	if failed == len(tenantIDs) && len(tenantIDs) > 0 {
		return fmt.Errorf("reconcile failed for all %d tenants", failed)
	}
	return nil
}

// HandleSubscriptionExpire deactivates subscriptions past their end date.
func (h *TaskHandler) HandleSubscriptionExpire(ctx context.Context, t *asynq.Task) error {
	n, err := h.subscriptions.ExpireLapsed(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}
	if n > 0 {
		h.logger.Info("expired %d subscriptions", n)
	}
	return nil
}
