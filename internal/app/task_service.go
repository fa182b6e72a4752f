package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	coretask "github.com/example/ledger/internal/core/task"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskRepo     secondary.TaskRepository
	shipmentRepo secondary.ShipmentRepository
	audit        auditor
	logger       *zap.Logger
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(taskRepo secondary.TaskRepository, shipmentRepo secondary.ShipmentRepository, logWriter secondary.LogWriter, logger *zap.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		shipmentRepo: shipmentRepo,
		audit:        newAuditor("task", logWriter, logger),
		logger:       logger,
	}
}

// shipmentStatus returns the status of a shipment and whether it exists.
func (s *TaskServiceImpl) shipmentStatus(ctx context.Context, shipmentID string) (string, bool, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if errors.Is(err, secondary.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to validate shipment: %w", err)
	}
	return shipment.Data.Status.Get(), true, nil
}

// CreateTask creates a new task in a shipment.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, payload models.TaskCreate) (models.Task, error) {
	if err := shape.Check(payload); err != nil {
		return models.Task{}, err
	}

	shipmentID := payload.Data.ShipmentID.Get()
	status, exists, err := s.shipmentStatus(ctx, shipmentID)
	if err != nil {
		return models.Task{}, err
	}

	result := coretask.CanCreateTask(coretask.CreateTaskContext{
		ShipmentID:     shipmentID,
		ShipmentExists: exists,
		ShipmentStatus: status,
		Priority:       payload.Data.Priority.Get(),
	})
	if err := result.Error(); err != nil {
		return models.Task{}, err
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to generate task ID: %w", err)
	}

	if err := s.taskRepo.Create(ctx, nextID, coretask.InitialStatus(), payload); err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created", zap.String("id", nextID), zap.String("shipment", shipmentID))
	s.audit.created(ctx, nextID)
	return s.taskRepo.GetByID(ctx, nextID)
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	return s.taskRepo.GetByID(ctx, taskID)
}

// ListTasks lists tasks with optional filters.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]models.Task, error) {
	return s.taskRepo.List(ctx, secondary.TaskFilters{
		ShipmentID: filters.ShipmentID,
		Status:     filters.Status,
	})
}

// UpdateTask applies a patch to a task.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID string, patch models.TaskUpdate) (models.Task, error) {
	if err := shape.Check(patch); err != nil {
		return models.Task{}, err
	}

	t := new(touched).
		add("shipment_id", patch.Data.ShipmentID.Patch()).
		add("title", patch.Data.Title.Patch()).
		add("description", patch.Data.Description.Patch()).
		add("priority", patch.Data.Priority.Patch())

	guardCtx := coretask.UpdateTaskContext{
		TaskID:     taskID,
		SetFields:  t.set,
		NullFields: t.null,
		Priority:   patch.Data.Priority.Get(),
	}

	if shipmentID, ok := patch.Data.ShipmentID.Lookup(); ok {
		_, exists, err := s.shipmentStatus(ctx, shipmentID)
		if err != nil {
			return models.Task{}, err
		}
		guardCtx.ShipmentID = shipmentID
		guardCtx.ShipmentExists = exists
	}

	if err := coretask.CanUpdateTask(guardCtx).Error(); err != nil {
		return models.Task{}, err
	}

	if err := s.taskRepo.Update(ctx, taskID, patch); err != nil {
		return models.Task{}, err
	}

	s.logger.Info("task updated", zap.String("id", taskID), zap.Strings("fields", t.set))
	s.audit.updated(ctx, taskID, t)
	return s.taskRepo.GetByID(ctx, taskID)
}

// SetTaskStatus moves a task to a new status.
func (s *TaskServiceImpl) SetTaskStatus(ctx context.Context, taskID, status string) error {
	result := coretask.CanSetStatus(coretask.StatusContext{TaskID: taskID, NewStatus: status})
	if err := result.Error(); err != nil {
		return err
	}

	if err := s.taskRepo.SetStatus(ctx, taskID, status); err != nil {
		return err
	}

	s.logger.Info("task status changed", zap.String("id", taskID), zap.String("to", status))
	s.audit.changed(ctx, taskID, "status", "", status)
	return nil
}

// DeleteTask deletes a task.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}
	s.logger.Info("task deleted", zap.String("id", taskID))
	s.audit.deleted(ctx, taskID)
	return nil
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
