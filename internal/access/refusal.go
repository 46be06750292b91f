package access

import "errors"

// Reason classifies a refusal. Authorization denials are deterministic and
// must not be retried; server_error marks infrastructure failure so callers
// do not mistake an outage for a business decision.
type Reason string

const (
	ReasonUnauthenticated        Reason = "unauthenticated"
	ReasonAccountDisabled        Reason = "account_disabled"
	ReasonOwnerOnly              Reason = "owner_only"
	ReasonInsufficientPermission Reason = "insufficient_permission"
	ReasonTenantMismatch         Reason = "tenant_mismatch"
	ReasonNoSubscription         Reason = "no_subscription"
	ReasonQuotaExceeded          Reason = "quota_exceeded"
	ReasonIntegrityError         Reason = "integrity_error"
	ReasonServerError            Reason = "server_error"
)

// Refusal is the structured denial surfaced to callers. A nil *Refusal from
// any check means the operation may proceed.
type Refusal struct {
	Allowed bool         `json:"allowed"`
	Reason  Reason       `json:"reason"`
	Detail  string       `json:"detail,omitempty"`
	Quota   *QuotaStatus `json:"quota,omitempty"`
}

func refuse(reason Reason, detail string) *Refusal {
	return &Refusal{Allowed: false, Reason: reason, Detail: detail}
}

// QuotaStatus is the result of a limit check. Remaining is -1 when the plan
// grants unlimited use of the resource kind.
type QuotaStatus struct {
	Allowed      bool   `json:"allowed"`
	Limit        int64  `json:"limit"`
	CurrentUsage int64  `json:"currentUsage"`
	Remaining    int64  `json:"remaining"`
	Plan         string `json:"plan,omitempty"`
}

var (
	// ErrNoActiveSubscription is returned when a tenant has no active,
	// unexpired subscription. Quota-gated operations fail closed on it.
	ErrNoActiveSubscription = errors.New("no active subscription")

	// ErrIntegrity marks broken tenant linkage (an employee whose owner
	// reference is missing or does not resolve to an owner account). It is a
	// data defect, not a permission denial.
	ErrIntegrity = errors.New("tenant integrity error")

	// ErrNotFound is returned by stores when a referenced record is absent.
	ErrNotFound = errors.New("record not found")
)
