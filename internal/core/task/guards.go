// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"slices"
	"strings"
)

// Task statuses.
const (
	StatusReady      = "ready"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusComplete   = "complete"
)

var validStatuses = []string{StatusReady, StatusInProgress, StatusBlocked, StatusComplete}

var nullableFields = []string{"description", "priority"}

// InitialStatus returns the status of a newly created task.
func InitialStatus() string {
	return StatusReady
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	ShipmentID     string
	ShipmentExists bool
	ShipmentStatus string
	Priority       *int
}

// UpdateTaskContext describes which fields an update touches.
type UpdateTaskContext struct {
	TaskID         string
	SetFields      []string
	NullFields     []string
	ShipmentID     string // new shipment, when set
	ShipmentExists bool
	Priority       *int
}

// StatusContext provides context for status change guards.
type StatusContext struct {
	TaskID    string
	NewStatus string
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Shipment must exist
// - Shipment must not be complete
// - Priority, when given, must be between 1 and 5
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if !ctx.ShipmentExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("shipment %s not found", ctx.ShipmentID),
		}
	}
	if ctx.ShipmentStatus == "complete" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot add tasks to complete shipment %s", ctx.ShipmentID),
		}
	}
	return checkPriority(ctx.Priority)
}

// CanUpdateTask evaluates whether a patch may be applied.
func CanUpdateTask(ctx UpdateTaskContext) GuardResult {
	if len(ctx.SetFields) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("nothing to update for task %s", ctx.TaskID),
		}
	}
	for _, f := range ctx.NullFields {
		if !slices.Contains(nullableFields, f) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("field %s of task %s cannot be null", f, ctx.TaskID),
			}
		}
	}
	if ctx.ShipmentID != "" && !ctx.ShipmentExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("shipment %s not found", ctx.ShipmentID),
		}
	}
	return checkPriority(ctx.Priority)
}

// CanSetStatus evaluates whether a task may move to a new status.
func CanSetStatus(ctx StatusContext) GuardResult {
	if !slices.Contains(validStatuses, ctx.NewStatus) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid task status %q (valid: %s)", ctx.NewStatus, strings.Join(validStatuses, ", ")),
		}
	}
	return GuardResult{Allowed: true}
}

func checkPriority(p *int) GuardResult {
	if p != nil && (*p < 1 || *p > 5) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("priority must be between 1 and 5 (got %d)", *p),
		}
	}
	return GuardResult{Allowed: true}
}

// GenerateTaskID generates a task ID from the current max number.
// The format is TASK-XXX where XXX is a zero-padded 3-digit number.
func GenerateTaskID(currentMax int) string {
	return fmt.Sprintf("TASK-%03d", currentMax+1)
}
