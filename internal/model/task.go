package model

import "time"

// Task status constants.
const (
	StatusTodo      = "todo"
	StatusInReview  = "in_review"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Statuses lists every valid task status in display order.
var Statuses = []string{
	StatusTodo,
	StatusInReview,
	StatusPending,
	StatusCompleted,
}

// Priority constants (lower number = higher priority).
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task is a unit of work with a name, priority, deadline, and status.
type Task struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string `json:"id"`

	// Name is the non-empty task label.
	Name string `json:"name"`

	// Priority is the ordinal rank (use Priority* constants).
	Priority int `json:"priority"`

	// AssignTime is when the task was created. Immutable.
	AssignTime time.Time `json:"assign_time"`

	// Deadline is when the task is due. Mutable via edit.
	Deadline time.Time `json:"deadline"`

	// Status is the current workflow state (use Status* constants).
	Status string `json:"status"`
}

// ValidStatus reports whether s is one of the enumerated task statuses.
func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// StatusLabel returns the display name for a status constant.
func StatusLabel(s string) string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInReview:
		return "In Review"
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	default:
		return s
	}
}

// PriorityLabel returns the display name for a priority rank.
func PriorityLabel(p int) string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}
