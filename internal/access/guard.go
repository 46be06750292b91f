package access

import (
	"context"
	"errors"

	"lexdesk/internal/models"

	console "lexdesk/internal/utils/logger"
)

// Guard is the single decision point wrapping every protected operation. It
// composes the permission engine, tenant resolver and quota engine into
// pass/fail checks; handlers never call the engines directly.
//
// Per operation the flow is Pending -> Authorized | Denied, and for create
// paths Authorized -> Committed | QuotaExceeded. A denial is terminal and has
// no side effects: no entity write, no usage increment.
type Guard struct {
	store   Store
	tenants *TenantResolver
	quota   *QuotaEngine
	log     *console.Logger
}

func NewGuard(store Store) *Guard {
	return &Guard{
		store:   store,
		tenants: NewTenantResolver(store),
		quota:   NewQuotaEngine(store),
		log:     console.New("GUARD"),
	}
}

// Quota exposes the quota engine for reconciliation tasks.
func (g *Guard) Quota() *QuotaEngine {
	return g.quota
}

// Tenant resolves and verifies the actor's tenant. Integrity failures are
// logged as data defects and surfaced without ownership details.
func (g *Guard) Tenant(ctx context.Context, actor *models.User) (string, *Refusal) {
	tenantID, err := g.tenants.Resolve(ctx, actor)
	if err != nil {
		if errors.Is(err, ErrIntegrity) {
			_ = g.log.Error("tenant linkage defect", err)
			return "", refuse(ReasonIntegrityError, "account data is inconsistent")
		}
		_ = g.log.Error("tenant resolution failed", err)
		return "", refuse(ReasonServerError, "temporary failure, retry later")
	}
	return tenantID, nil
}

// Check runs the pure permission decision for (category, action).
func (g *Guard) Check(actor *models.User, category models.Category, action models.Action, opts AuthorizeOpts) *Refusal {
	return Authorize(actor, category, action, opts)
}

// CheckEntity authorizes an operation on an existing entity: the permission
// check and the tenant-match check are independent and both must pass. Even
// an owner is refused when the record belongs to another tenant.
func (g *Guard) CheckEntity(ctx context.Context, actor *models.User, category models.Category, action models.Action, entityTenantID string) *Refusal {
	if r := Authorize(actor, category, action, AuthorizeOpts{}); r != nil {
		return r
	}
	tenantID, r := g.Tenant(ctx, actor)
	if r != nil {
		return r
	}
	if tenantID != entityTenantID {
		return refuse(ReasonTenantMismatch, "record belongs to a different firm")
	}
	return nil
}

// CheckCreate authorizes creation of a quota-bound entity: permission first,
// then quota admission. Returns the resolved tenant id for the caller to
// stamp on the new entity and pass to CommitCreate after the write commits.
func (g *Guard) CheckCreate(ctx context.Context, actor *models.User, category models.Category, kind models.ResourceKind, amount int64) (string, *Refusal) {
	if r := Authorize(actor, category, models.ActionCreate, AuthorizeOpts{}); r != nil {
		return "", r
	}
	tenantID, r := g.Tenant(ctx, actor)
	if r != nil {
		return "", r
	}

	status, err := g.quota.CheckLimit(ctx, tenantID, kind, amount)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return "", refuse(ReasonNoSubscription, "no active subscription")
		}
		_ = g.log.Error("quota check failed", err)
		return "", refuse(ReasonServerError, "temporary failure, retry later")
	}
	if !status.Allowed {
		ref := refuse(ReasonQuotaExceeded, "plan limit reached for "+string(kind))
		ref.Quota = status
		return "", ref
	}
	return tenantID, nil
}

// CommitCreate records the usage consumed by a successfully persisted
// creation. Called only after the write durably committed; if the increment
// itself fails the entity is NOT rolled back and the counter drifts until the
// next reconciliation pass. Deletes never commit a decrement: freed capacity
// is reclaimed only when reconciliation recounts, so non-positive amounts are
// dropped.
func (g *Guard) CommitCreate(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) {
	if amount <= 0 {
		g.log.Warn("dropping non-positive usage commit for tenant %s kind %s: %d", tenantID, kind, amount)
		return
	}
	if err := g.quota.UpdateUsage(ctx, tenantID, kind, amount); err != nil {
		g.log.Warn("usage increment failed for tenant %s kind %s: %v (reconciliation will correct)", tenantID, kind, err)
	}
}
