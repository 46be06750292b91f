package access

import (
	"context"
	"sync"
	"testing"
	"time"

	"lexdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLimitAdmission(t *testing.T) {
	store := newMemStore()
	engine := NewQuotaEngine(store)
	ctx := context.Background()

	store.addSubscription(activeSub("t1",
		models.Limits{Cases: 50, Clients: 100, Documents: 10, StorageMB: 100, Users: 5},
		models.UsageCounters{Cases: 50, Clients: 99},
	))

	// At the cap: one more case is refused.
	status, err := engine.CheckLimit(ctx, "t1", models.KindCases, 1)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	assert.EqualValues(t, 50, status.Limit)
	assert.EqualValues(t, 50, status.CurrentUsage)
	assert.EqualValues(t, 0, status.Remaining)

	// One below the cap: admitted with remaining 1.
	status, err = engine.CheckLimit(ctx, "t1", models.KindClients, 1)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.EqualValues(t, 1, status.Remaining)

	// Amount larger than headroom is refused even below the cap.
	status, err = engine.CheckLimit(ctx, "t1", models.KindClients, 2)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
}

func TestCheckLimitUnlimitedSentinel(t *testing.T) {
	store := newMemStore()
	engine := NewQuotaEngine(store)

	store.addSubscription(activeSub("t1",
		models.Limits{Cases: models.Unlimited},
		models.UsageCounters{Cases: 1_000_000},
	))

	status, err := engine.CheckLimit(context.Background(), "t1", models.KindCases, 1)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.EqualValues(t, models.Unlimited, status.Limit)
	assert.EqualValues(t, models.Unlimited, status.Remaining)
	assert.EqualValues(t, 1_000_000, status.CurrentUsage)
}

func TestCheckLimitNoSubscription(t *testing.T) {
	engine := NewQuotaEngine(newMemStore())

	_, err := engine.CheckLimit(context.Background(), "t1", models.KindCases, 1)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestCheckLimitExpiredSubscription(t *testing.T) {
	store := newMemStore()
	engine := NewQuotaEngine(store)

	sub := activeSub("t1", models.Limits{Cases: 50}, models.UsageCounters{})
	sub.EndDate = time.Now().Add(-time.Hour)
	store.addSubscription(sub)

	_, err := engine.CheckLimit(context.Background(), "t1", models.KindCases, 1)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestCheckLimitStorageAmount(t *testing.T) {
	// Storage checks pass a computed size instead of a unit count; the engine
	// treats it as an opaque additive quantity.
	store := newMemStore()
	engine := NewQuotaEngine(store)
	ctx := context.Background()

	store.addSubscription(activeSub("t1",
		models.Limits{StorageMB: 100},
		models.UsageCounters{StorageMB: 90},
	))

	status, err := engine.CheckLimit(ctx, "t1", models.KindStorageMB, 10)
	require.NoError(t, err)
	assert.True(t, status.Allowed)

	status, err = engine.CheckLimit(ctx, "t1", models.KindStorageMB, 11)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
}

func TestUpdateUsageConcurrentIncrements(t *testing.T) {
	// N concurrent successful creations each trigger exactly one atomic
	// increment; the final counter equals initial + N with no lost updates.
	store := newMemStore()
	engine := NewQuotaEngine(store)
	ctx := context.Background()

	store.addSubscription(activeSub("t1",
		models.Limits{Cases: 1000},
		models.UsageCounters{Cases: 7},
	))

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, engine.UpdateUsage(ctx, "t1", models.KindCases, 1))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 7+n, store.usage("t1").Cases)
	assert.Equal(t, n, store.incrementCalls)
}

func TestRefreshUsageStats(t *testing.T) {
	store := newMemStore()
	engine := NewQuotaEngine(store)
	ctx := context.Background()

	// Drifted counters: usage says 10 cases but only 4 rows exist.
	store.addSubscription(activeSub("t1",
		models.Limits{Cases: 50, Clients: 50, Documents: 50, StorageMB: 500, Users: 5},
		models.UsageCounters{Cases: 10, Clients: 1, Documents: 0, StorageMB: 0, Users: 1},
	))
	store.setCount("t1", models.KindCases, 4)
	store.setCount("t1", models.KindClients, 12)
	store.setCount("t1", models.KindDocuments, 3)
	store.setCount("t1", models.KindUsers, 2)
	store.storageMB["t1"] = 42

	first, err := engine.RefreshUsageStats(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.UsageCounters{Cases: 4, Clients: 12, Documents: 3, StorageMB: 42, Users: 2}, *first)
	assert.Equal(t, *first, store.usage("t1"))

	// Idempotent: a second pass with no intervening writes is a no-op.
	second, err := engine.RefreshUsageStats(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
	assert.Equal(t, *second, store.usage("t1"))
}

func TestUpdateUsageRejectsNonPositiveAmounts(t *testing.T) {
	// Increments are monotonic; deletes leave counters to reconciliation.
	store := newMemStore()
	engine := NewQuotaEngine(store)
	ctx := context.Background()

	store.addSubscription(activeSub("t1",
		models.Limits{Clients: 10},
		models.UsageCounters{Clients: 5},
	))

	assert.Error(t, engine.UpdateUsage(ctx, "t1", models.KindClients, 0))
	assert.Error(t, engine.UpdateUsage(ctx, "t1", models.KindClients, -1))
	assert.EqualValues(t, 5, store.usage("t1").Clients)
	assert.Equal(t, 0, store.incrementCalls)
}
