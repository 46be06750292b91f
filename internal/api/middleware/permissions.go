package middleware

import (
	"net/http"

	"lexdesk/internal/access"
	"lexdesk/internal/models"

	"github.com/labstack/echo/v4"
)

// RefusalStatus maps a refusal reason to an HTTP status. Quota and
// subscription denials are billing problems, not permission problems.
func RefusalStatus(r *access.Refusal) int {
	switch r.Reason {
	case access.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case access.ReasonNoSubscription, access.ReasonQuotaExceeded:
		return http.StatusPaymentRequired
	case access.ReasonIntegrityError, access.ReasonServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}

// Deny writes the structured refusal payload with the mapped status.
func Deny(c echo.Context, r *access.Refusal) error {
	return c.JSON(RefusalStatus(r), r)
}

// RequireAccess gates a route on a (category, action) permission. Tenant and
// quota checks stay in the handlers, which know the target entity.
func RequireAccess(guard *access.Guard, category models.Category, action models.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r := guard.Check(GetActor(c), category, action, access.AuthorizeOpts{}); r != nil {
				return Deny(c, r)
			}
			return next(c)
		}
	}
}

// RequireOwner gates a route to firm owners.
func RequireOwner(guard *access.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r := guard.Check(GetActor(c), "", "", access.AuthorizeOpts{OwnerOnly: true}); r != nil {
				return Deny(c, r)
			}
			return next(c)
		}
	}
}
