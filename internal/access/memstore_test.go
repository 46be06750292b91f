package access

import (
	"context"
	"fmt"
	"sync"

	"lexdesk/internal/models"
)

// memStore is an in-memory Store fake. IncrementUsage is atomic under the
// mutex, mirroring the additive-update contract of the real store.
type memStore struct {
	mu        sync.Mutex
	actors    map[string]*models.User
	subs      map[string]*models.Subscription
	counts    map[string]map[models.ResourceKind]int64
	storageMB map[string]int64

	incrementCalls int
	subErr         error
	actorErr       error
}

func newMemStore() *memStore {
	return &memStore{
		actors:    make(map[string]*models.User),
		subs:      make(map[string]*models.Subscription),
		counts:    make(map[string]map[models.ResourceKind]int64),
		storageMB: make(map[string]int64),
	}
}

func (m *memStore) addActor(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[u.ID] = u
	return u
}

func (m *memStore) addSubscription(s *models.Subscription) *models.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.TenantID] = s
	return s
}

func (m *memStore) setCount(tenantID string, kind models.ResourceKind, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts[tenantID] == nil {
		m.counts[tenantID] = make(map[models.ResourceKind]int64)
	}
	m.counts[tenantID][kind] = n
}

func (m *memStore) usage(tenantID string) models.UsageCounters {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[tenantID]; ok {
		return s.Usage()
	}
	return models.UsageCounters{}
}

func (m *memStore) FindActorByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.actorErr != nil {
		return nil, m.actorErr
	}
	u, ok := m.actors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) FindActiveSubscription(ctx context.Context, tenantID string) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subErr != nil {
		return nil, m.subErr
	}
	s, ok := m.subs[tenantID]
	if !ok || !s.IsActive || !s.EndDate.After(timeNow()) {
		return nil, ErrNoActiveSubscription
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) IncrementUsage(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCalls++
	s, ok := m.subs[tenantID]
	if !ok || !s.IsActive {
		return ErrNoActiveSubscription
	}
	switch kind {
	case models.KindCases:
		s.UsageCases += amount
	case models.KindClients:
		s.UsageClients += amount
	case models.KindDocuments:
		s.UsageDocuments += amount
	case models.KindStorageMB:
		s.UsageStorageMB += amount
	case models.KindUsers:
		s.UsageUsers += amount
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

func (m *memStore) OverwriteUsage(ctx context.Context, tenantID string, usage models.UsageCounters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[tenantID]
	if !ok {
		return ErrNotFound
	}
	s.UsageCases = usage.Cases
	s.UsageClients = usage.Clients
	s.UsageDocuments = usage.Documents
	s.UsageStorageMB = usage.StorageMB
	s.UsageUsers = usage.Users
	return nil
}

func (m *memStore) CountEntities(ctx context.Context, tenantID string, kind models.ResourceKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[tenantID][kind], nil
}

func (m *memStore) TotalDocumentStorageMB(ctx context.Context, tenantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storageMB[tenantID], nil
}

var _ Store = (*memStore)(nil)
