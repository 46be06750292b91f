package access

import (
	"fmt"

	"lexdesk/internal/models"
)

// AuthorizeOpts tunes a permission check. OwnerOnly restricts the operation
// to firm owner accounts regardless of granted permissions (plan purchase,
// firm settings, employee management).
type AuthorizeOpts struct {
	OwnerOnly bool
}

// Authorize decides whether an actor may perform (category, action). Pure and
// side-effect free: the caller supplies an already-resolved actor snapshot,
// and tenant matching against a concrete entity is a separate check.
//
// Order matters: a disabled account is refused before any permission lookup.
func Authorize(actor *models.User, category models.Category, action models.Action, opts AuthorizeOpts) *Refusal {
	if actor == nil {
		return refuse(ReasonUnauthenticated, "no authenticated actor")
	}
	if !actor.IsActive {
		return refuse(ReasonAccountDisabled, "account is disabled")
	}
	if opts.OwnerOnly && !actor.IsOwner() {
		return refuse(ReasonOwnerOnly, "operation is restricted to the firm owner")
	}
	if actor.IsOwner() {
		// Owners bypass the matrix entirely within their own tenant.
		return nil
	}
	if !HasGrant(actor, category, action) {
		return refuse(ReasonInsufficientPermission,
			fmt.Sprintf("missing %s permission on %s", action, category))
	}
	return nil
}

// HasGrant reports whether the actor's permission matrix explicitly allows
// (category, action). Owners always pass; employees fail closed on anything
// not explicitly granted.
func HasGrant(actor *models.User, category models.Category, action models.Action) bool {
	if actor.IsOwner() {
		return true
	}
	return actor.Grants().Allows(category, action)
}

// IsOwnerOfTenant reports whether the actor is the owner account of the given
// tenant. An owner of a different tenant is not.
func IsOwnerOfTenant(actor *models.User, tenantID string) bool {
	return actor.IsOwner() && actor.ID == tenantID
}

// CheckTenantMatch verifies the actor's resolved tenant owns the entity.
// This is independent of category/action permission; both must pass, and even
// an owner is refused on another tenant's records.
func CheckTenantMatch(actor *models.User, entityTenantID string) *Refusal {
	tenantID, err := ResolveTenant(actor)
	if err != nil {
		return refuse(ReasonIntegrityError, "account data is inconsistent")
	}
	if tenantID != entityTenantID {
		return refuse(ReasonTenantMismatch, "record belongs to a different firm")
	}
	return nil
}
