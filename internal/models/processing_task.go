package models

import "time"

// Task status constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// ProcessingTask tracks one batch pipeline run for a user
type ProcessingTask struct {
	ID           int64   `json:"id" db:"id"`
	UserID       string  `json:"userId" db:"user_id"`
	Status       string  `json:"status" db:"status"`
	TotalSamples int     `json:"totalSamples" db:"total_samples"`
	VisitCount   int     `json:"visitCount" db:"visit_count"`
	RouteCount   int     `json:"routeCount" db:"route_count"`
	TripCount    int     `json:"tripCount" db:"trip_count"`
	ErrorMessage *string `json:"errorMessage,omitempty" db:"error_message"`

	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	StartedAt   *time.Time `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// IsTerminal reports whether the task has reached a final state
func (t *ProcessingTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
