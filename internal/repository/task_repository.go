package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// TaskRepository handles database operations for processing tasks
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a pending task and returns its ID.
func (r *TaskRepository) Create(userID string) (int64, error) {
	result, err := r.db.Exec(
		"INSERT INTO processing_tasks (user_id, status) VALUES (?, ?)",
		userID, models.TaskStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get task id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a task by ID, nil when not found.
func (r *TaskRepository) GetByID(id int64) (*models.ProcessingTask, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, status, total_samples, visit_count, route_count,
		       trip_count, error_message, created_at, started_at, completed_at
		FROM processing_tasks WHERE id = ?
	`, id)

	var task models.ProcessingTask
	err := row.Scan(
		&task.ID, &task.UserID, &task.Status, &task.TotalSamples, &task.VisitCount,
		&task.RouteCount, &task.TripCount, &task.ErrorMessage,
		&task.CreatedAt, &task.StartedAt, &task.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListByUser retrieves the most recent tasks of a user.
func (r *TaskRepository) ListByUser(userID string, limit int) ([]models.ProcessingTask, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT id, user_id, status, total_samples, visit_count, route_count,
		       trip_count, error_message, created_at, started_at, completed_at
		FROM processing_tasks
		WHERE user_id = ?
		ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.ProcessingTask
	for rows.Next() {
		var task models.ProcessingTask
		err := rows.Scan(
			&task.ID, &task.UserID, &task.Status, &task.TotalSamples, &task.VisitCount,
			&task.RouteCount, &task.TripCount, &task.ErrorMessage,
			&task.CreatedAt, &task.StartedAt, &task.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// MarkAsRunning records the start of processing.
func (r *TaskRepository) MarkAsRunning(id int64, totalSamples int) error {
	_, err := r.db.Exec(
		"UPDATE processing_tasks SET status = ?, total_samples = ?, started_at = ? WHERE id = ?",
		models.TaskStatusRunning, totalSamples, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}
	return nil
}

// MarkAsCompleted records a successful run with its result counts.
func (r *TaskRepository) MarkAsCompleted(id int64, visitCount, routeCount, tripCount int) error {
	_, err := r.db.Exec(`
		UPDATE processing_tasks SET
			status = ?, visit_count = ?, route_count = ?, trip_count = ?, completed_at = ?
		WHERE id = ?
	`, models.TaskStatusCompleted, visitCount, routeCount, tripCount, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}
	return nil
}

// MarkAsFailed records a failed run with its error message.
func (r *TaskRepository) MarkAsFailed(id int64, message string) error {
	_, err := r.db.Exec(
		"UPDATE processing_tasks SET status = ?, error_message = ?, completed_at = ? WHERE id = ?",
		models.TaskStatusFailed, message, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark task as failed: %w", err)
	}
	return nil
}
