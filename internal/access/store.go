package access

import (
	"context"

	"lexdesk/internal/models"
)

// Store is the persistence contract the access layer depends on. The gorm
// implementation lives in this package; tests substitute an in-memory fake.
type Store interface {
	// FindActorByID returns the current persisted state of a user account.
	FindActorByID(ctx context.Context, id string) (*models.User, error)

	// FindActiveSubscription returns the tenant's subscription iff it is
	// active and not past its end date; ErrNoActiveSubscription otherwise.
	FindActiveSubscription(ctx context.Context, tenantID string) (*models.Subscription, error)

	// IncrementUsage applies an atomic additive update to one usage column of
	// the tenant's active subscription. Concurrent increments must not lose
	// updates.
	IncrementUsage(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) error

	// OverwriteUsage replaces every usage column of the tenant's subscription
	// with freshly counted values.
	OverwriteUsage(ctx context.Context, tenantID string, usage models.UsageCounters) error

	// CountEntities returns the authoritative row count for a countable kind.
	CountEntities(ctx context.Context, tenantID string, kind models.ResourceKind) (int64, error)

	// TotalDocumentStorageMB sums the per-document storage charge (whole
	// megabytes, rounded up per file) for a tenant.
	TotalDocumentStorageMB(ctx context.Context, tenantID string) (int64, error)
}
