// Package commission contains the pure business logic for commission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package commission

import (
	"fmt"
	"slices"
	"strings"
)

// Commission statuses.
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusComplete = "complete"
	StatusArchived = "archived"
)

var validStatuses = []string{StatusActive, StatusPaused, StatusComplete, StatusArchived}

// nullableFields lists the data fields an update may clear.
var nullableFields = []string{"description"}

// InitialStatus returns the status of a newly created commission.
func InitialStatus() string {
	return StatusActive
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateContext provides context for commission creation guards.
type CreateContext struct {
	Title string
}

// UpdateContext describes which fields an update touches.
type UpdateContext struct {
	CommissionID string
	SetFields    []string // fields carrying a value or an explicit null
	NullFields   []string // fields carrying an explicit null
	Title        string   // new title, when set
}

// StatusContext provides context for status change guards.
type StatusContext struct {
	CommissionID string
	NewStatus    string
	IsPinned     bool
}

// DeleteContext provides context for commission deletion guards.
// Populated by the caller with pre-fetched dependency counts.
type DeleteContext struct {
	CommissionID  string
	ShipmentCount int
	ForceDelete   bool
}

// CanCreateCommission evaluates whether a commission can be created.
// Rule: title must not be blank.
func CanCreateCommission(ctx CreateContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "commission title cannot be empty"}
	}
	return GuardResult{Allowed: true}
}

// CanUpdateCommission evaluates whether a patch may be applied.
// Rules:
// - At least one field must be set
// - Only nullable fields may be cleared
// - A new title must not be blank
func CanUpdateCommission(ctx UpdateContext) GuardResult {
	if len(ctx.SetFields) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("nothing to update for commission %s", ctx.CommissionID),
		}
	}
	for _, f := range ctx.NullFields {
		if !slices.Contains(nullableFields, f) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("field %s of commission %s cannot be null", f, ctx.CommissionID),
			}
		}
	}
	if slices.Contains(ctx.SetFields, "title") && !slices.Contains(ctx.NullFields, "title") && strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "commission title cannot be empty"}
	}
	return GuardResult{Allowed: true}
}

// CanSetStatus evaluates whether a commission may move to a new status.
// Rules:
// - Status must be one of the known commission statuses
// - Pinned commissions cannot be completed or archived
func CanSetStatus(ctx StatusContext) GuardResult {
	if !slices.Contains(validStatuses, ctx.NewStatus) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid commission status %q (valid: %s)", ctx.NewStatus, strings.Join(validStatuses, ", ")),
		}
	}
	if ctx.IsPinned && (ctx.NewStatus == StatusComplete || ctx.NewStatus == StatusArchived) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Cannot %s pinned commission %s. Unpin first with: ledger commission unpin %s", verb(ctx.NewStatus), ctx.CommissionID, ctx.CommissionID),
		}
	}
	return GuardResult{Allowed: true}
}

func verb(status string) string {
	if status == StatusArchived {
		return "archive"
	}
	return "complete"
}

// CanDeleteCommission evaluates whether a commission can be deleted.
// Rule: Commissions with shipments require --force flag.
func CanDeleteCommission(ctx DeleteContext) GuardResult {
	if ctx.ShipmentCount > 0 && !ctx.ForceDelete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Commission %s has %d shipments. Use --force to delete anyway", ctx.CommissionID, ctx.ShipmentCount),
		}
	}
	return GuardResult{Allowed: true}
}

// GenerateCommissionID generates a commission ID from the current max number.
// The format is COMM-XXX where XXX is a zero-padded 3-digit number.
func GenerateCommissionID(currentMax int) string {
	return fmt.Sprintf("COMM-%03d", currentMax+1)
}
