package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/core/task"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
)

const taskSelectSQL = "SELECT " + taskColumns + " FROM tasks t"

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, id, status string, t models.TaskCreate) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (id, shipment_id, title, description, status, priority) VALUES (?, ?, ?, ?, ?, ?)",
		id, t.Data.ShipmentID.Get(), t.Data.Title.Get(), t.Data.Description.Get(), status, t.Data.Priority.Get(),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Debug("task created", zap.String("id", id))
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	t, err := query(ctx, r.db, scanTaskRow, func(rows grouping.Stream[joinedRow]) (models.Task, error) {
		return collect.One(ctx, rows, taskID, buildTask)
	}, taskSelectSQL+" WHERE t.id = ?", id)

	if errors.Is(err, collect.ErrNotFound) {
		return models.Task{}, fmt.Errorf("task %s %w", id, err)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// List retrieves tasks matching the given filters.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]models.Task, error) {
	q := taskSelectSQL + " WHERE 1=1"
	args := []any{}

	if filters.ShipmentID != "" {
		q += " AND t.shipment_id = ?"
		args = append(args, filters.ShipmentID)
	}
	if filters.Status != "" {
		q += " AND t.status = ?"
		args = append(args, filters.Status)
	}

	tasks, err := query(ctx, r.db, scanTaskRow, func(rows grouping.Stream[joinedRow]) ([]models.Task, error) {
		return collect.All(ctx, rows, taskID, buildTask)
	}, q+" ORDER BY t.id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update writes the set and nulled fields of patch.
func (r *TaskRepository) Update(ctx context.Context, id string, patch models.TaskUpdate) error {
	u := newUpdate("tasks")
	setPatch(u, "shipment_id", patch.Data.ShipmentID.Patch())
	setPatch(u, "title", patch.Data.Title.Patch())
	setPatch(u, "description", patch.Data.Description.Patch())
	setPatch(u, "priority", patch.Data.Priority.Patch())

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !found {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// SetStatus changes a task's status.
func (r *TaskRepository) SetStatus(ctx context.Context, id, status string) error {
	u := newUpdate("tasks")
	u.set("status", status)

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to set task status: %w", err)
	}
	if !found {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a task from persistence.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available task ID.
func (r *TaskRepository) GetNextID(ctx context.Context) (string, error) {
	maxID, err := nextNumber(ctx, r.db, "tasks", "TASK")
	if err != nil {
		return "", fmt.Errorf("failed to get next task ID: %w", err)
	}

	return task.GenerateTaskID(maxID), nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
