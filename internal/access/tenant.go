package access

import (
	"context"
	"errors"
	"fmt"

	"lexdesk/internal/models"
)

// ResolveTenant derives the tenant key for an actor: an owner's own id, or an
// employee's owner reference. Pure; it does not verify the reference exists.
func ResolveTenant(actor *models.User) (string, error) {
	if actor.IsOwner() {
		return actor.ID, nil
	}
	if actor.OwnerID == nil || *actor.OwnerID == "" {
		return "", fmt.Errorf("%w: employee %s has no owner reference", ErrIntegrity, actor.ID)
	}
	return *actor.OwnerID, nil
}

// TenantResolver resolves and, for employees, verifies tenant linkage against
// the store: the owner reference must point at an existing owner account.
// Tenants never nest, so an employee pointing at another employee is a defect.
type TenantResolver struct {
	store Store
}

func NewTenantResolver(store Store) *TenantResolver {
	return &TenantResolver{store: store}
}

func (r *TenantResolver) Resolve(ctx context.Context, actor *models.User) (string, error) {
	tenantID, err := ResolveTenant(actor)
	if err != nil {
		return "", err
	}
	if actor.IsOwner() {
		return tenantID, nil
	}

	owner, err := r.store.FindActorByID(ctx, tenantID)
	if errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("%w: employee %s references missing owner %s", ErrIntegrity, actor.ID, tenantID)
	}
	if err != nil {
		return "", err
	}
	if !owner.IsOwner() {
		return "", fmt.Errorf("%w: employee %s references non-owner account %s", ErrIntegrity, actor.ID, tenantID)
	}
	return tenantID, nil
}
