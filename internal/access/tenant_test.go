package access

import (
	"context"
	"fmt"
	"testing"

	"lexdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTenant(t *testing.T) {
	owner := ownerActor("t1")
	id, err := ResolveTenant(owner)
	require.NoError(t, err)
	assert.Equal(t, "t1", id)

	emp := employeeActor("e1", "t1", models.UserRoleLawyer, models.PermissionSet{})
	id, err = ResolveTenant(emp)
	require.NoError(t, err)
	assert.Equal(t, "t1", id)
}

func TestResolveTenantMissingOwnerReference(t *testing.T) {
	emp := employeeActor("e1", "", models.UserRoleLawyer, models.PermissionSet{})
	emp.OwnerID = nil

	_, err := ResolveTenant(emp)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrity)

	empty := ""
	emp.OwnerID = &empty
	_, err = ResolveTenant(emp)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestTenantResolverVerifiesLinkage(t *testing.T) {
	store := newMemStore()
	resolver := NewTenantResolver(store)
	ctx := context.Background()

	store.addActor(ownerActor("t1"))
	emp := employeeActor("e1", "t1", models.UserRoleLawyer, models.PermissionSet{})

	id, err := resolver.Resolve(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, "t1", id)

	// Owner reference pointing at a missing account is an integrity error.
	orphan := employeeActor("e2", "missing", models.UserRoleLawyer, models.PermissionSet{})
	_, err = resolver.Resolve(ctx, orphan)
	assert.ErrorIs(t, err, ErrIntegrity)

	// Tenants never nest: an employee referencing another employee is broken.
	nested := employeeActor("e3", "e1", models.UserRoleLawyer, models.PermissionSet{})
	store.addActor(emp)
	_, err = resolver.Resolve(ctx, nested)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestTenantResolverOwnerSkipsLookup(t *testing.T) {
	// Owners resolve to themselves without touching the store.
	resolver := NewTenantResolver(newMemStore())
	id, err := resolver.Resolve(context.Background(), ownerActor("t9"))
	require.NoError(t, err)
	assert.Equal(t, "t9", id)
}

func TestTenantResolverMapsWrappedNotFound(t *testing.T) {
	// The store may wrap its sentinel; the integrity mapping must still fire.
	store := newMemStore()
	store.actorErr = fmt.Errorf("load owner: %w", ErrNotFound)
	resolver := NewTenantResolver(store)

	emp := employeeActor("e1", "t1", models.UserRoleLawyer, models.PermissionSet{})
	_, err := resolver.Resolve(context.Background(), emp)
	assert.ErrorIs(t, err, ErrIntegrity)
}
