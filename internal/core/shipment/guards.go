// Package shipment contains the pure business logic for shipment operations.
// Guards are pure functions that evaluate preconditions without side effects.
package shipment

import (
	"fmt"
	"slices"
	"strings"
)

// Shipment statuses.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusComplete   = "complete"
)

var validStatuses = []string{StatusDraft, StatusInProgress, StatusPaused, StatusComplete}

var nullableFields = []string{"description", "branch", "repo"}

// InitialStatus returns the status of a newly created shipment.
func InitialStatus() string {
	return StatusDraft
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

// CreateShipmentContext provides context for shipment creation guards.
type CreateShipmentContext struct {
	CommissionID     string
	CommissionExists bool
	RepoID           string // empty when the shipment is not linked to a repo
	RepoExists       bool
}

// UpdateShipmentContext describes which fields an update touches.
type UpdateShipmentContext struct {
	ShipmentID       string
	SetFields        []string
	NullFields       []string
	CommissionID     string // new commission, when set
	CommissionExists bool
	RepoID           string // new repo, when set to a value
	RepoExists       bool
}

// TaskSummary contains minimal task info for guard evaluation.
type TaskSummary struct {
	ID     string
	Status string
}

// StatusContext provides context for status change guards.
type StatusContext struct {
	ShipmentID      string
	CurrentStatus   string
	NewStatus       string
	Tasks           []TaskSummary
	ForceCompletion bool // Skip task check if explicitly forced
}

// CanCreateShipment evaluates whether a shipment can be created.
// Rules:
// - Commission must exist
// - Linked repo must exist
func CanCreateShipment(ctx CreateShipmentContext) GuardResult {
	if !ctx.CommissionExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("commission %s not found", ctx.CommissionID),
		}
	}
	if ctx.RepoID != "" && !ctx.RepoExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repo %s not found", ctx.RepoID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanUpdateShipment evaluates whether a patch may be applied.
// Rules:
// - At least one field must be set
// - Only nullable fields may be cleared
// - A new commission or repo must exist
func CanUpdateShipment(ctx UpdateShipmentContext) GuardResult {
	if len(ctx.SetFields) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("nothing to update for shipment %s", ctx.ShipmentID),
		}
	}
	for _, f := range ctx.NullFields {
		if !slices.Contains(nullableFields, f) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("field %s of shipment %s cannot be null", f, ctx.ShipmentID),
			}
		}
	}
	if ctx.CommissionID != "" && !ctx.CommissionExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("commission %s not found", ctx.CommissionID),
		}
	}
	if ctx.RepoID != "" && !ctx.RepoExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repo %s not found", ctx.RepoID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanSetStatus evaluates whether a shipment may move to a new status.
// Rules:
// - Status must be one of the known shipment statuses
// - Only in_progress shipments can be paused
// - All tasks must be complete before completion (unless forced)
func CanSetStatus(ctx StatusContext) GuardResult {
	if !slices.Contains(validStatuses, ctx.NewStatus) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid shipment status %q (valid: %s)", ctx.NewStatus, strings.Join(validStatuses, ", ")),
		}
	}

	if ctx.NewStatus == StatusPaused && ctx.CurrentStatus != StatusInProgress {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only pause in_progress shipments (current status: %s)", ctx.CurrentStatus),
		}
	}

	if ctx.NewStatus == StatusComplete && !ctx.ForceCompletion {
		var incomplete []string
		for _, t := range ctx.Tasks {
			if t.Status != "complete" {
				incomplete = append(incomplete, t.ID)
			}
		}
		if len(incomplete) > 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot complete shipment %s: %d incomplete task(s) (%s). Use --force to complete anyway", ctx.ShipmentID, len(incomplete), strings.Join(incomplete, ", ")),
			}
		}
	}

	return GuardResult{Allowed: true}
}

// GenerateShipmentID generates a shipment ID from the current max number.
// The format is SHIP-XXX where XXX is a zero-padded 3-digit number.
func GenerateShipmentID(currentMax int) string {
	return fmt.Sprintf("SHIP-%03d", currentMax+1)
}
