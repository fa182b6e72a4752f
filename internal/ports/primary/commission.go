// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"

	"github.com/example/ledger/internal/models"
)

// CommissionService defines the primary port for commission operations.
type CommissionService interface {
	// CreateCommission validates payload and stores it under a fresh ID.
	CreateCommission(ctx context.Context, payload models.CommissionCreate) (models.Commission, error)

	// GetCommission retrieves a commission with its shipments and their tasks.
	GetCommission(ctx context.Context, commissionID string) (models.Commission, error)

	// ListCommissions lists commissions with optional filters.
	ListCommissions(ctx context.Context, filters CommissionFilters) ([]models.Commission, error)

	// UpdateCommission applies a patch and returns the updated commission.
	UpdateCommission(ctx context.Context, commissionID string, patch models.CommissionUpdate) (models.Commission, error)

	// SetCommissionStatus moves a commission to a new status.
	SetCommissionStatus(ctx context.Context, commissionID, status string) error

	// PinCommission pins a commission to prevent completion/archival.
	PinCommission(ctx context.Context, commissionID string) error

	// UnpinCommission unpins a commission.
	UnpinCommission(ctx context.Context, commissionID string) error

	// DeleteCommission deletes a commission.
	DeleteCommission(ctx context.Context, req DeleteCommissionRequest) error
}

// CommissionFilters contains filter options for listing commissions.
type CommissionFilters struct {
	Status string
	Limit  int
}

// DeleteCommissionRequest contains parameters for deleting a commission.
type DeleteCommissionRequest struct {
	CommissionID string
	Force        bool
}
