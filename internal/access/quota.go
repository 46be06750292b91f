package access

import (
	"context"
	"fmt"

	"lexdesk/internal/models"

	console "lexdesk/internal/utils/logger"
)

// QuotaEngine tracks per-tenant usage against plan limits. Enforcement is a
// soft limit: CheckLimit reads a possibly slightly stale usage snapshot, so N
// concurrent creations can transiently overshoot the cap by at most N-1.
// Reconciliation corrects any drift; heavier locking is deliberately avoided.
type QuotaEngine struct {
	store Store
	log   *console.Logger
}

func NewQuotaEngine(store Store) *QuotaEngine {
	return &QuotaEngine{
		store: store,
		log:   console.New("QUOTA"),
	}
}

// CheckLimit decides whether the tenant may consume amount more of kind.
// Fail-closed: a tenant without an active subscription gets
// ErrNoActiveSubscription and no quota-gated operation proceeds.
func (q *QuotaEngine) CheckLimit(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) (*QuotaStatus, error) {
	sub, err := q.store.FindActiveSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	limit := sub.Limits().Kind(kind)
	usage := sub.Usage().Kind(kind)

	if limit == models.Unlimited {
		return &QuotaStatus{
			Allowed:      true,
			Limit:        models.Unlimited,
			CurrentUsage: usage,
			Remaining:    models.Unlimited,
			Plan:         string(sub.PlanKey),
		}, nil
	}

	remaining := limit - usage
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{
		Allowed:      limit-usage >= amount,
		Limit:        limit,
		CurrentUsage: usage,
		Remaining:    remaining,
		Plan:         string(sub.PlanKey),
	}, nil
}

// UpdateUsage applies a monotonic increment to one usage counter. Called only
// after the guarded creation has durably committed; the increment itself is a
// single atomic additive update in the store.
func (q *QuotaEngine) UpdateUsage(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("usage increments are monotonic, got %d for %s", amount, kind)
	}
	return q.store.IncrementUsage(ctx, tenantID, kind, amount)
}

// RefreshUsageStats recomputes every counter from authoritative entity counts
// and overwrites the stored usage. Idempotent; safe to run concurrently with
// ordinary traffic. This is the reconciliation path that heals drift from
// missed or doubled increments and from deletes, which never decrement
// synchronously.
func (q *QuotaEngine) RefreshUsageStats(ctx context.Context, tenantID string) (*models.UsageCounters, error) {
	var usage models.UsageCounters

	for _, kind := range []models.ResourceKind{models.KindCases, models.KindClients, models.KindDocuments, models.KindUsers} {
		count, err := q.store.CountEntities(ctx, tenantID, kind)
		if err != nil {
			return nil, err
		}
		switch kind {
		case models.KindCases:
			usage.Cases = count
		case models.KindClients:
			usage.Clients = count
		case models.KindDocuments:
			usage.Documents = count
		case models.KindUsers:
			usage.Users = count
		}
	}

	storageMB, err := q.store.TotalDocumentStorageMB(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	usage.StorageMB = storageMB

	if err := q.store.OverwriteUsage(ctx, tenantID, usage); err != nil {
		return nil, err
	}

	q.log.Debug("refreshed usage for tenant %s: %+v", tenantID, usage)
	return &usage, nil
}
