package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"lexdesk/internal/access"
	"lexdesk/internal/models"
	"lexdesk/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureService records the arguments List receives instead of hitting a DB.
type captureService struct {
	entity  *models.Client
	filters map[string]interface{}
	sort    []string
	order   string
	deleted bool
}

func (s *captureService) Create(ctx context.Context, entity *models.Client, includes ...string) error {
	return nil
}

func (s *captureService) Get(ctx context.Context, id string, includes ...string) (*models.Client, error) {
	if s.entity == nil {
		return nil, errors.New("record not found")
	}
	return s.entity, nil
}

func (s *captureService) List(ctx context.Context, page, limit int, filters map[string]interface{}, excludeFields map[string]bool, sortFields []string, order string, includes ...string) ([]models.Client, int64, error) {
	s.filters = filters
	s.sort = sortFields
	s.order = order
	return nil, 0, nil
}

func (s *captureService) Update(ctx context.Context, id string, entity *models.Client, includes ...string) error {
	return nil
}

func (s *captureService) Delete(ctx context.Context, id string) error {
	s.deleted = true
	return nil
}

var _ services.BaseService[models.Client] = (*captureService)(nil)

// stubStore counts usage increments; everything else is inert.
type stubStore struct {
	increments int
}

func (s *stubStore) FindActorByID(ctx context.Context, id string) (*models.User, error) {
	return nil, access.ErrNotFound
}

func (s *stubStore) FindActiveSubscription(ctx context.Context, tenantID string) (*models.Subscription, error) {
	return nil, access.ErrNoActiveSubscription
}

func (s *stubStore) IncrementUsage(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) error {
	s.increments++
	return nil
}

func (s *stubStore) OverwriteUsage(ctx context.Context, tenantID string, usage models.UsageCounters) error {
	return nil
}

func (s *stubStore) CountEntities(ctx context.Context, tenantID string, kind models.ResourceKind) (int64, error) {
	return 0, nil
}

func (s *stubStore) TotalDocumentStorageMB(ctx context.Context, tenantID string) (int64, error) {
	return 0, nil
}

var _ access.Store = (*stubStore)(nil)

func testOwner(id string) *models.User {
	u := &models.User{
		AccountType: models.AccountTypeOwner,
		Role:        models.UserRoleOwner,
		IsActive:    true,
	}
	u.ID = id
	return u
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		field  string
		column string
	}{
		{"ID", "id"},
		{"Name", "name"},
		{"TenantID", "tenant_id"},
		{"CreatedAt", "created_at"},
		{"SizeBytes", "size_bytes"},
		{"UploadedByID", "uploaded_by_id"},
		{"LimitStorageMB", "limit_storage_mb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.column, columnName(tt.field), tt.field)
	}
}

func TestFilterableColumns(t *testing.T) {
	cols := filterableColumns[models.Client]()

	assert.True(t, cols["id"])
	assert.True(t, cols["name"])
	assert.True(t, cols["tenant_id"])
	assert.True(t, cols["created_at"])
	assert.True(t, cols["is_deleted"])

	assert.False(t, cols["1=1 UNION SELECT * FROM clients WHERE tenant_id = 'victim'"])
	assert.False(t, cols["name = '' OR 1=1 --"])
}

func TestListDropsHostileQueryParams(t *testing.T) {
	// Filter keys become SQL column references downstream, so only names that
	// exist on the entity may pass, the tenant filter is never overridable,
	// and the sort direction collapses to asc/desc.
	svc := &captureService{}
	ctrl := NewBaseController[models.Client](svc, access.NewGuard(&stubStore{}), models.CategoryClients, models.KindClients)

	q := make(url.Values)
	q.Set("name", "acme")
	q.Set("tenant_id", "victim-tenant")
	q.Set("1=1 UNION SELECT * FROM clients WHERE tenant_id = 'victim'", "x")
	q.Set("sort", "CreatedAt")
	q.Set("order", "asc; DROP TABLE clients")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/clients?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor", testOwner("owner-1"))

	require.NoError(t, ctrl.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.filters)
	assert.Equal(t, "acme", svc.filters["name"])
	assert.Equal(t, "owner-1", svc.filters["tenant_id"])
	for key := range svc.filters {
		assert.Contains(t, []string{"name", "tenant_id"}, key)
	}
	assert.Equal(t, []string{"created_at"}, svc.sort)
	assert.Equal(t, "asc", svc.order)
}

func TestDeleteLeavesUsageCounters(t *testing.T) {
	// Deletion runs permission + tenant-match and soft-deletes; counters stay
	// untouched until the reconciliation sweep recounts.
	entity := &models.Client{TenantID: "owner-1", Name: "Acme"}
	entity.ID = "c1"
	svc := &captureService{entity: entity}
	store := &stubStore{}
	ctrl := NewBaseController[models.Client](svc, access.NewGuard(store), models.CategoryClients, models.KindClients)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/clients/c1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set("actor", testOwner("owner-1"))

	require.NoError(t, ctrl.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.deleted)
	assert.Zero(t, store.increments)
}
