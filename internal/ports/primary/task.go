package primary

import (
	"context"

	"github.com/example/ledger/internal/models"
)

// TaskService defines the primary port for task operations.
type TaskService interface {
	CreateTask(ctx context.Context, payload models.TaskCreate) (models.Task, error)
	GetTask(ctx context.Context, taskID string) (models.Task, error)
	ListTasks(ctx context.Context, filters TaskFilters) ([]models.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch models.TaskUpdate) (models.Task, error)
	SetTaskStatus(ctx context.Context, taskID, status string) error
	DeleteTask(ctx context.Context, taskID string) error
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	ShipmentID string
	Status     string
}
