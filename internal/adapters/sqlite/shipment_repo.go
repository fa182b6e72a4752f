package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/core/shipment"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
)

const shipmentTreeSQL = "SELECT " + shipmentColumns + ", " + repoColumns + ", " + taskColumns + `
FROM shipments s
LEFT JOIN repos r ON r.id = s.repo_id
LEFT JOIN tasks t ON t.shipment_id = s.id`

const shipmentTreeOrder = " ORDER BY s.id, t.id"

// ShipmentRepository implements secondary.ShipmentRepository with SQLite.
type ShipmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShipmentRepository creates a new SQLite shipment repository.
func NewShipmentRepository(db *sql.DB, logger *zap.Logger) *ShipmentRepository {
	return &ShipmentRepository{db: db, logger: logger}
}

func repoIDOf(ref *models.RepoRef) any {
	if ref == nil {
		return nil
	}
	return ref.ID.Get()
}

// Create persists a new shipment.
func (r *ShipmentRepository) Create(ctx context.Context, id, status string, s models.ShipmentCreate) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO shipments (id, commission_id, title, description, status, branch, repo_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, s.Data.CommissionID.Get(), s.Data.Title.Get(), s.Data.Description.Get(), status, s.Data.Branch.Get(), repoIDOf(s.Data.Repo.Get()),
	)
	if err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}

	r.logger.Debug("shipment created", zap.String("id", id))
	return nil
}

// GetByID retrieves a shipment with its tasks and linked repo.
func (r *ShipmentRepository) GetByID(ctx context.Context, id string) (models.Shipment, error) {
	s, err := query(ctx, r.db, scanShipmentRow, func(rows grouping.Stream[joinedRow]) (models.Shipment, error) {
		return collect.One(ctx, rows, shipmentID, buildShipment)
	}, shipmentTreeSQL+" WHERE s.id = ?"+shipmentTreeOrder, id)

	switch {
	case errors.Is(err, collect.ErrNotFound):
		return models.Shipment{}, fmt.Errorf("shipment %s %w", id, err)
	case errors.Is(err, collect.ErrTooMany):
		r.logger.Warn("shipment id matched more than one group", zap.String("id", id))
		return models.Shipment{}, fmt.Errorf("shipment %s: %w", id, err)
	case err != nil:
		return models.Shipment{}, fmt.Errorf("failed to get shipment: %w", err)
	}

	r.logger.Debug("shipment collected", zap.String("id", id), zap.Int("tasks", len(s.Data.Tasks.Get())))
	return s, nil
}

// List retrieves shipments matching the given filters.
func (r *ShipmentRepository) List(ctx context.Context, filters secondary.ShipmentFilters) ([]models.Shipment, error) {
	q := shipmentTreeSQL + " WHERE 1=1"
	args := []any{}

	if filters.CommissionID != "" {
		q += " AND s.commission_id = ?"
		args = append(args, filters.CommissionID)
	}
	if filters.Status != "" {
		q += " AND s.status = ?"
		args = append(args, filters.Status)
	}

	shipments, err := query(ctx, r.db, scanShipmentRow, func(rows grouping.Stream[joinedRow]) ([]models.Shipment, error) {
		return collect.All(ctx, rows, shipmentID, buildShipment)
	}, q+shipmentTreeOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	return shipments, nil
}

// Update writes the set and nulled fields of patch.
func (r *ShipmentRepository) Update(ctx context.Context, id string, patch models.ShipmentUpdate) error {
	u := newUpdate("shipments")
	setPatch(u, "commission_id", patch.Data.CommissionID.Patch())
	setPatch(u, "title", patch.Data.Title.Patch())
	setPatch(u, "description", patch.Data.Description.Patch())
	setPatch(u, "branch", patch.Data.Branch.Patch())
	setPatchFunc(u, "repo_id", patch.Data.Repo.Patch(), repoIDOf)

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
	}
	if !found {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// SetStatus changes a shipment's status.
func (r *ShipmentRepository) SetStatus(ctx context.Context, id, status string) error {
	u := newUpdate("shipments")
	u.set("status", status)

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to set shipment status: %w", err)
	}
	if !found {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a shipment and its tasks.
func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM shipments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete shipment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available shipment ID.
func (r *ShipmentRepository) GetNextID(ctx context.Context) (string, error) {
	maxID, err := nextNumber(ctx, r.db, "shipments", "SHIP")
	if err != nil {
		return "", fmt.Errorf("failed to get next shipment ID: %w", err)
	}

	return shipment.GenerateShipmentID(maxID), nil
}

// Ensure ShipmentRepository implements the interface
var _ secondary.ShipmentRepository = (*ShipmentRepository)(nil)
