// Package repo contains the pure business logic for repository operations.
// Guards are pure functions that evaluate preconditions without side effects.
package repo

import (
	"fmt"
	"strings"
)

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

// CreateRepoContext provides context for repository creation guards.
type CreateRepoContext struct {
	Name       string
	NameExists bool // true if a repo with this name already exists
}

// DeleteRepoContext provides context for repository deletion guards.
type DeleteRepoContext struct {
	RepoID        string
	ShipmentCount int // shipments still linked to the repo
}

// CanCreateRepo evaluates whether a repository can be created.
// Rules:
// - Name must not be empty
// - Name must be unique
func CanCreateRepo(ctx CreateRepoContext) GuardResult {
	if strings.TrimSpace(ctx.Name) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "repository name cannot be empty",
		}
	}

	if ctx.NameExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repository with name %q already exists", ctx.Name),
		}
	}

	return GuardResult{Allowed: true}
}

// CanDeleteRepo evaluates whether a repository can be deleted.
// Rule: no shipment may still link to it.
func CanDeleteRepo(ctx DeleteRepoContext) GuardResult {
	if ctx.ShipmentCount > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete repository %s: %d shipment(s) still link to it", ctx.RepoID, ctx.ShipmentCount),
		}
	}

	return GuardResult{Allowed: true}
}

// GenerateRepoID generates a repository ID from the current max number.
// The format is REPO-XXX where XXX is a zero-padded 3-digit number.
func GenerateRepoID(currentMax int) string {
	return fmt.Sprintf("REPO-%03d", currentMax+1)
}
