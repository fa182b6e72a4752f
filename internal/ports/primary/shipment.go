package primary

import (
	"context"

	"github.com/example/ledger/internal/models"
)

// ShipmentService defines the primary port for shipment operations.
type ShipmentService interface {
	CreateShipment(ctx context.Context, payload models.ShipmentCreate) (models.Shipment, error)
	GetShipment(ctx context.Context, shipmentID string) (models.Shipment, error)
	ListShipments(ctx context.Context, filters ShipmentFilters) ([]models.Shipment, error)
	UpdateShipment(ctx context.Context, shipmentID string, patch models.ShipmentUpdate) (models.Shipment, error)

	// SetShipmentStatus moves a shipment to a new status. Completing a
	// shipment with open tasks requires Force.
	SetShipmentStatus(ctx context.Context, req SetShipmentStatusRequest) error

	DeleteShipment(ctx context.Context, shipmentID string) error
}

// ShipmentFilters contains filter options for listing shipments.
type ShipmentFilters struct {
	CommissionID string
	Status       string
}

// SetShipmentStatusRequest contains parameters for a shipment status change.
type SetShipmentStatusRequest struct {
	ShipmentID string
	Status     string
	Force      bool
}
