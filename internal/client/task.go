package client

import (
	"time"
)

// Task is the client's copy of a server task. CustomOrder exists only on the
// client and drives the "custom" sort.
type Task struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	Title       string     `json:"title"`
	Done        bool       `json:"done"`
	Priority    int        `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CustomOrder int64      `json:"custom_order"`
}

// NewTask is the input of a task creation.
type NewTask struct {
	Title    string     `json:"title"`
	Priority *int       `json:"priority,omitempty"`
	Category string     `json:"category,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Tags     []string   `json:"tags,omitempty"`
}

// TaskPatch carries only the fields being changed.
type TaskPatch struct {
	Title    *string    `json:"title,omitempty"`
	Done     *bool      `json:"done,omitempty"`
	Priority *int       `json:"priority,omitempty"`
	Category *string    `json:"category,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Tags     *[]string  `json:"tags,omitempty"`
}

func indexOf(tasks []Task, id uint) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
