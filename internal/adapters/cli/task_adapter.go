package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/shape"
)

// TaskAdapter is a thin adapter that translates CLI operations to TaskService calls.
type TaskAdapter struct {
	service primary.TaskService
	out     io.Writer
	output  Output
}

// NewTaskAdapter creates a new TaskAdapter with the given service.
func NewTaskAdapter(service primary.TaskService, out io.Writer, output Output) *TaskAdapter {
	return &TaskAdapter{
		service: service,
		out:     out,
		output:  output,
	}
}

// Create creates a new task. A nil priority leaves it unset.
func (a *TaskAdapter) Create(ctx context.Context, shipmentID, title, description string, priority *int) error {
	type create = shape.Create
	return a.create(ctx, models.TaskCreate{Data: models.TaskData[create]{
		ShipmentID:  shape.DataOf[create](shipmentID),
		Title:       shape.DataOf[create](title),
		Description: shape.DataOf[create](optional(description)),
		Priority:    shape.DataOf[create](priority),
	}})
}

// CreateFromJSON creates a task from a JSON payload.
func (a *TaskAdapter) CreateFromJSON(ctx context.Context, payload []byte) error {
	t, err := shape.Decode[shape.Create, models.TaskData[shape.Create]](payload)
	if err != nil {
		return err
	}
	return a.create(ctx, t)
}

func (a *TaskAdapter) create(ctx context.Context, payload models.TaskCreate) error {
	t, err := a.service.CreateTask(ctx, payload)
	if err != nil {
		return err
	}

	if ok, err := a.output.structured(a.out, t); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created task %s: %s\n", t.ID.Get(), t.Data.Title.Get())
	fmt.Fprintf(a.out, "  Shipment: %s\n", t.Data.ShipmentID.Get())
	return nil
}

// List lists tasks with optional filters.
func (a *TaskAdapter) List(ctx context.Context, shipmentID, status string) error {
	tasks, err := a.service.ListTasks(ctx, primary.TaskFilters{ShipmentID: shipmentID, Status: status})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if ok, err := a.output.structured(a.out, tasks); ok {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-12s %-3s %s\n", "ID", "SHIPMENT", "STATUS", "PRI", "TITLE")
	fmt.Fprintln(a.out, rule)
	for _, t := range tasks {
		pri := "-"
		if p, ok := deref(t.Data.Priority.Get()); ok {
			pri = fmt.Sprintf("P%d", p)
		}
		fmt.Fprintf(a.out, "%-10s %-10s %s %-3s %s\n",
			t.ID.Get(), t.Data.ShipmentID.Get(), colorStatus(t.Data.Status.Get(), 12), pri, t.Data.Title.Get())
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single task.
func (a *TaskAdapter) Show(ctx context.Context, taskID string) (models.Task, error) {
	t, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	if ok, err := a.output.structured(a.out, t); ok {
		return t, err
	}

	fmt.Fprintf(a.out, "\nTask:     %s\n", t.ID.Get())
	fmt.Fprintf(a.out, "Shipment: %s\n", t.Data.ShipmentID.Get())
	fmt.Fprintf(a.out, "Title:    %s\n", t.Data.Title.Get())
	fmt.Fprintf(a.out, "Status:   %s\n", colorStatus(t.Data.Status.Get(), 0))
	if p, ok := deref(t.Data.Priority.Get()); ok {
		fmt.Fprintf(a.out, "Priority: P%d\n", p)
	}
	if d, ok := deref(t.Data.Description.Get()); ok {
		if a.output.Markdown {
			fmt.Fprintf(a.out, "Description:\n%s\n", renderMarkdown(d))
		} else {
			fmt.Fprintf(a.out, "Description: %s\n", d)
		}
	}
	if u := t.Updated.Get(); u != nil {
		fmt.Fprintf(a.out, "Updated:  %s\n", u.Format(timeLayout))
	}
	fmt.Fprintln(a.out)

	return t, nil
}

// Update applies a patch to a task.
func (a *TaskAdapter) Update(ctx context.Context, taskID string, patch models.TaskUpdate) error {
	t, err := a.service.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if ok, err := a.output.structured(a.out, t); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Task %s updated\n", taskID)
	return nil
}

// UpdateFromJSON applies a JSON patch to a task.
func (a *TaskAdapter) UpdateFromJSON(ctx context.Context, taskID string, payload []byte) error {
	patch, err := shape.Decode[shape.Update, models.TaskData[shape.Update]](payload)
	if err != nil {
		return err
	}
	return a.Update(ctx, taskID, patch)
}

// SetStatus moves a task to a new status.
func (a *TaskAdapter) SetStatus(ctx context.Context, taskID, status string) error {
	if err := a.service.SetTaskStatus(ctx, taskID, status); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Task %s marked as %s\n", taskID, status)
	return nil
}

// Delete deletes a task.
func (a *TaskAdapter) Delete(ctx context.Context, taskID string) error {
	if err := a.service.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Task %s deleted\n", taskID)
	return nil
}
