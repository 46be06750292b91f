package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexdesk/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on the application database. It is constructed
// once at process start and injected into the engines; nothing in this
// package reaches for a package-level handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) FindActorByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindActiveSubscription(ctx context.Context, tenantID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = true AND end_date > ? AND is_deleted = false", tenantID, time.Now()).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IncrementUsage issues a single additive UPDATE so concurrent creations
// against the same tenant never lose updates. Affecting zero rows means the
// subscription lapsed between check and commit.
func (s *GormStore) IncrementUsage(ctx context.Context, tenantID string, kind models.ResourceKind, amount int64) error {
	column := models.UsageColumn(kind)
	if column == "" {
		return fmt.Errorf("unknown resource kind %q", kind)
	}

	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("tenant_id = ? AND is_active = true AND end_date > ? AND is_deleted = false", tenantID, time.Now()).
		UpdateColumn(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoActiveSubscription
	}
	return nil
}

func (s *GormStore) OverwriteUsage(ctx context.Context, tenantID string, usage models.UsageCounters) error {
	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("tenant_id = ? AND is_deleted = false", tenantID).
		UpdateColumns(map[string]interface{}{
			"usage_cases":      usage.Cases,
			"usage_clients":    usage.Clients,
			"usage_documents":  usage.Documents,
			"usage_storage_mb": usage.StorageMB,
			"usage_users":      usage.Users,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountEntities(ctx context.Context, tenantID string, kind models.ResourceKind) (int64, error) {
	var count int64
	q := s.db.WithContext(ctx)

	switch kind {
	case models.KindCases:
		q = q.Model(&models.Case{}).Where("tenant_id = ? AND is_deleted = false", tenantID)
	case models.KindClients:
		q = q.Model(&models.Client{}).Where("tenant_id = ? AND is_deleted = false", tenantID)
	case models.KindDocuments:
		q = q.Model(&models.Document{}).Where("tenant_id = ? AND is_deleted = false", tenantID)
	case models.KindUsers:
		// The owner account counts against the seat limit too.
		q = q.Model(&models.User{}).Where("(id = ? OR owner_id = ?) AND is_deleted = false", tenantID, tenantID)
	default:
		return 0, fmt.Errorf("kind %q is not countable", kind)
	}

	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalDocumentStorageMB charges each file its size rounded up to whole
// megabytes, matching what the upload path charges at admission time.
func (s *GormStore) TotalDocumentStorageMB(ctx context.Context, tenantID string) (int64, error) {
	var total *int64
	err := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("tenant_id = ? AND is_deleted = false", tenantID).
		Select("SUM((size_bytes + 1048575) / 1048576)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
