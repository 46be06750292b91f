package tasks

import "time"

// Task Types
const (
	// Usage counters recounted from the entity tables, per tenant.
	TaskTypeUsageReconcile = "usage:reconcile"
	// Subscriptions past their end date get deactivated.
	TaskTypeSubscriptionExpire = "subscription:expire"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background tasks like reconciliation
)

// Task Priorities (1-10, higher is more important)
const (
	PriorityCritical = 10
	PriorityHigh     = 8
	PriorityNormal   = 5
	PriorityLow      = 3
	PriorityBG       = 1
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)
