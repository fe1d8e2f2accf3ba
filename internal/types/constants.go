package types

const ContextUserKey = "user"

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3

	DefaultPriority = PriorityMedium
	DefaultCategory = "general"
)

// Status filter values for task listing.
const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Server-side sort orders for task listing.
const (
	SortPriority  = "priority"   // priority ASC, created_at ASC
	SortCreatedAt = "created_at" // created_at DESC
	SortNewest    = "newest"     // alias of created_at
)

func ValidPriority(p int) bool {
	return p >= PriorityHigh && p <= PriorityLow
}
