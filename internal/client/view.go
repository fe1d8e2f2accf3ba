package client

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tasktrack/tasktrack/internal/types"
)

type SortKey string

const (
	SortPriority  SortKey = "priority"
	SortDueDate   SortKey = "dueDate"
	SortCustom    SortKey = "custom"
	SortCreatedAt SortKey = "created_at"
)

// ParseSortKey accepts the known keys; anything else sorts newest first.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriority, SortDueDate, SortCustom:
		return SortKey(s)
	default:
		return SortCreatedAt
	}
}

// Filters narrow the derived view. Zero values mean "any".
type Filters struct {
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Category string `json:"category"`
	Search   string `json:"search"`
}

// Match reports whether t passes every active filter.
func (f Filters) Match(t Task, showCompleted bool) bool {
	switch f.Status {
	case types.StatusCompleted:
		if !t.Done {
			return false
		}
	case types.StatusPending:
		if t.Done {
			return false
		}
	}

	if !showCompleted && t.Done {
		return false
	}
	if f.Priority != 0 && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}

	return f.Search == "" || matchesSearch(t, strings.ToLower(f.Search))
}

func matchesSearch(t Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

// Comparator returns the ordering used for sortBy. Ties keep input order
// because callers sort stably.
func Comparator(sortBy SortKey) func(a, b Task) int {
	switch sortBy {
	case SortPriority:
		return func(a, b Task) int { return cmp.Compare(a.Priority, b.Priority) }
	case SortDueDate:
		return compareDueDate
	case SortCustom:
		return func(a, b Task) int { return cmp.Compare(a.CustomOrder, b.CustomOrder) }
	default:
		return func(a, b Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

// compareDueDate puts tasks without a due date after every dated task.
func compareDueDate(a, b Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

// DeriveView filters and orders tasks for display. It never modifies tasks
// and always returns a fresh, non-nil slice.
func DeriveView(tasks []Task, filters Filters, sortBy SortKey, showCompleted bool) []Task {
	view := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filters.Match(t, showCompleted) {
			view = append(view, t)
		}
	}

	slices.SortStableFunc(view, Comparator(sortBy))
	return view
}
