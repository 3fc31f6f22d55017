package model

import "time"

// Notification types.
const (
	NotificationDueToday     = "due-today"
	NotificationPastDeadline = "past-deadline"
)

// Notification is a logged deadline alert. Entries are append-mostly:
// created once by the deadline watcher, deleted only by explicit user
// action, never otherwise mutated.
type Notification struct {
	// ID is the unique identifier for this log entry.
	ID string `json:"id"`

	// NotificationKey is the composite dedup key: task id plus the
	// calendar day of the task's deadline at the time the alert fired.
	// At most one entry per key is ever created.
	NotificationKey string `json:"notification_key"`

	// TaskID links back to the originating task. The entry survives
	// deletion of the task.
	TaskID string `json:"task_id"`

	// TaskName is a snapshot of the task name at emission time.
	TaskName string `json:"task_name"`

	// Type is due-today or past-deadline.
	Type string `json:"type"`

	// Message is the rendered alert text.
	Message string `json:"message"`

	// Timestamp is when the alert was emitted.
	Timestamp time.Time `json:"timestamp"`
}
