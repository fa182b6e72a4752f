// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/models"
)

// ErrNotFound is matched (with errors.Is) by every repository error caused by
// a missing row.
var ErrNotFound = collect.ErrNotFound

// CommissionRepository defines the secondary port for commission persistence.
type CommissionRepository interface {
	// Create persists a new commission under a pre-generated ID and status.
	Create(ctx context.Context, id, status string, commission models.CommissionCreate) error

	// GetByID retrieves a commission with its shipments and their tasks.
	GetByID(ctx context.Context, id string) (models.Commission, error)

	// List retrieves commissions matching the given filters, nested like GetByID.
	List(ctx context.Context, filters CommissionFilters) ([]models.Commission, error)

	// Update writes the set and nulled fields of patch.
	Update(ctx context.Context, id string, patch models.CommissionUpdate) error

	// SetStatus changes a commission's status.
	SetStatus(ctx context.Context, id, status string) error

	// SetPinned pins or unpins a commission.
	SetPinned(ctx context.Context, id string, pinned bool) error

	// Delete removes a commission and, by cascade, its shipments and tasks.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a commission with id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// GetNextID returns the next available commission ID.
	GetNextID(ctx context.Context) (string, error)

	// CountShipments returns the number of shipments for a commission.
	CountShipments(ctx context.Context, commissionID string) (int, error)
}

// CommissionFilters contains filter options for querying commissions.
type CommissionFilters struct {
	Status string
	Limit  int
}

// ShipmentRepository defines the secondary port for shipment persistence.
type ShipmentRepository interface {
	Create(ctx context.Context, id, status string, shipment models.ShipmentCreate) error

	// GetByID retrieves a shipment with its tasks and linked repo.
	GetByID(ctx context.Context, id string) (models.Shipment, error)

	List(ctx context.Context, filters ShipmentFilters) ([]models.Shipment, error)
	Update(ctx context.Context, id string, patch models.ShipmentUpdate) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	GetNextID(ctx context.Context) (string, error)
}

// ShipmentFilters contains filter options for querying shipments.
type ShipmentFilters struct {
	CommissionID string
	Status       string
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	Create(ctx context.Context, id, status string, task models.TaskCreate) error
	GetByID(ctx context.Context, id string) (models.Task, error)
	List(ctx context.Context, filters TaskFilters) ([]models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskUpdate) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	GetNextID(ctx context.Context) (string, error)
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	ShipmentID string
	Status     string
}

// RepoRepository defines the secondary port for repository persistence.
type RepoRepository interface {
	Create(ctx context.Context, id string, repo models.RepoCreate) error
	GetByID(ctx context.Context, id string) (models.Repo, error)
	GetByName(ctx context.Context, name string) (models.Repo, error)
	List(ctx context.Context) ([]models.Repo, error)
	Delete(ctx context.Context, id string) error
	GetNextID(ctx context.Context) (string, error)

	// CountShipments returns the number of shipments linked to a repository.
	CountShipments(ctx context.Context, repoID string) (int, error)
}
