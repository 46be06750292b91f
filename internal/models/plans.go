package models

type PlanKey string

const (
	PlanFree         PlanKey = "free"
	PlanProfessional PlanKey = "professional"
	PlanPremium      PlanKey = "premium"
	PlanEnterprise   PlanKey = "enterprise"
)

// Plan is one entry of the static catalog. The catalog is read-only at
// runtime; the quota engine consults it only when a subscription is created
// or a purchase is applied.
type Plan struct {
	Key            PlanKey  `json:"key"`
	Name           string   `json:"name"`
	PriceMonthly   int64    `json:"priceMonthly"` // minor currency units
	DurationMonths int      `json:"durationMonths"`
	Limits         Limits   `json:"limits"`
	Features       []string `json:"features"`
}

var plans = map[PlanKey]Plan{
	PlanFree: {
		Key:            PlanFree,
		Name:           "Free",
		PriceMonthly:   0,
		DurationMonths: 12,
		Limits: Limits{
			Cases:     10,
			Clients:   20,
			Documents: 50,
			StorageMB: 100,
			Users:     1,
		},
		Features: []string{"cases", "clients", "appointments"},
	},
	PlanProfessional: {
		Key:            PlanProfessional,
		Name:           "Professional",
		PriceMonthly:   2900,
		DurationMonths: 1,
		Limits: Limits{
			Cases:     100,
			Clients:   200,
			Documents: 1000,
			StorageMB: 5120,
			Users:     5,
		},
		Features: []string{"cases", "clients", "appointments", "documents", "reports"},
	},
	PlanPremium: {
		Key:            PlanPremium,
		Name:           "Premium",
		PriceMonthly:   7900,
		DurationMonths: 1,
		Limits: Limits{
			Cases:     500,
			Clients:   1000,
			Documents: 10000,
			StorageMB: 20480,
			Users:     20,
		},
		Features: []string{"cases", "clients", "appointments", "documents", "reports", "financial"},
	},
	PlanEnterprise: {
		Key:            PlanEnterprise,
		Name:           "Enterprise",
		PriceMonthly:   19900,
		DurationMonths: 1,
		Limits: Limits{
			Cases:     Unlimited,
			Clients:   Unlimited,
			Documents: Unlimited,
			StorageMB: Unlimited,
			Users:     Unlimited,
		},
		Features: []string{"cases", "clients", "appointments", "documents", "reports", "financial", "priority-support"},
	},
}

// GetPlan looks up a catalog entry by key.
func GetPlan(key PlanKey) (Plan, bool) {
	p, ok := plans[key]
	return p, ok
}

// AllPlans returns the catalog in a stable order.
func AllPlans() []Plan {
	return []Plan{plans[PlanFree], plans[PlanProfessional], plans[PlanPremium], plans[PlanEnterprise]}
}

// NewFreeSubscription builds the subscription every tenant starts with.
func NewFreeSubscription(tenantID string) *Subscription {
	sub := &Subscription{TenantID: tenantID}
	sub.ApplyPlan(plans[PlanFree], nowFunc())
	sub.PaymentStatus = PaymentStatusSucceeded
	return sub
}
