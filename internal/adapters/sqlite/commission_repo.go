// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/core/commission"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
)

// commissionTreeSQL selects a commission with every shipment, the shipment's
// repo and every task, one row per task. The ORDER BY is what the nested
// grouping relies on.
const commissionTreeSQL = "SELECT " + commissionColumns + ", " + shipmentColumns + ", " + repoColumns + ", " + taskColumns + `
FROM commissions c
LEFT JOIN shipments s ON s.commission_id = c.id
LEFT JOIN repos r ON r.id = s.repo_id
LEFT JOIN tasks t ON t.shipment_id = s.id`

const commissionTreeOrder = " ORDER BY c.id, s.id, t.id"

// CommissionRepository implements secondary.CommissionRepository with SQLite.
type CommissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommissionRepository creates a new SQLite commission repository.
func NewCommissionRepository(db *sql.DB, logger *zap.Logger) *CommissionRepository {
	return &CommissionRepository{db: db, logger: logger}
}

// Create persists a new commission.
// ID and status are generated by the service layer.
func (r *CommissionRepository) Create(ctx context.Context, id, status string, c models.CommissionCreate) error {
	if id == "" {
		return fmt.Errorf("commission ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO commissions (id, title, description, status) VALUES (?, ?, ?, ?)",
		id, c.Data.Title.Get(), c.Data.Description.Get(), status,
	)
	if err != nil {
		return fmt.Errorf("failed to create commission: %w", err)
	}

	r.logger.Debug("commission created", zap.String("id", id))
	return nil
}

// GetByID retrieves a commission with its shipments and their tasks.
func (r *CommissionRepository) GetByID(ctx context.Context, id string) (models.Commission, error) {
	c, err := query(ctx, r.db, scanCommissionRow, func(rows grouping.Stream[joinedRow]) (models.Commission, error) {
		return collect.One(ctx, rows, commissionKey, buildCommission)
	}, commissionTreeSQL+" WHERE c.id = ?"+commissionTreeOrder, id)

	switch {
	case errors.Is(err, collect.ErrNotFound):
		return models.Commission{}, fmt.Errorf("commission %s %w", id, err)
	case errors.Is(err, collect.ErrTooMany):
		r.logger.Warn("commission id matched more than one group", zap.String("id", id))
		return models.Commission{}, fmt.Errorf("commission %s: %w", id, err)
	case err != nil:
		return models.Commission{}, fmt.Errorf("failed to get commission: %w", err)
	}

	r.logger.Debug("commission collected",
		zap.String("id", id),
		zap.Int("shipments", len(c.Data.Shipments.Get())),
	)
	return c, nil
}

// List retrieves commissions matching the given filters, in ID order.
func (r *CommissionRepository) List(ctx context.Context, filters secondary.CommissionFilters) ([]models.Commission, error) {
	sub := "SELECT id FROM commissions"
	args := []any{}

	if filters.Status != "" {
		sub += " WHERE status = ?"
		args = append(args, filters.Status)
	}

	sub += " ORDER BY id"

	if filters.Limit > 0 {
		sub += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	commissions, err := query(ctx, r.db, scanCommissionRow, func(rows grouping.Stream[joinedRow]) ([]models.Commission, error) {
		return collect.All(ctx, rows, commissionKey, buildCommission)
	}, commissionTreeSQL+" WHERE c.id IN ("+sub+")"+commissionTreeOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}

	r.logger.Debug("commissions collected", zap.Int("count", len(commissions)))
	return commissions, nil
}

// Update writes the set and nulled fields of patch.
func (r *CommissionRepository) Update(ctx context.Context, id string, patch models.CommissionUpdate) error {
	u := newUpdate("commissions")
	setPatch(u, "title", patch.Data.Title.Patch())
	setPatch(u, "description", patch.Data.Description.Patch())

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to update commission: %w", err)
	}
	if !found {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// SetStatus changes a commission's status.
func (r *CommissionRepository) SetStatus(ctx context.Context, id, status string) error {
	u := newUpdate("commissions")
	u.set("status", status)

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to set commission status: %w", err)
	}
	if !found {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// SetPinned pins or unpins a commission.
func (r *CommissionRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	u := newUpdate("commissions")
	u.set("pinned", pinned)

	found, err := u.exec(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("failed to pin commission: %w", err)
	}
	if !found {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a commission from persistence.
func (r *CommissionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM commissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete commission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Exists reports whether a commission with id exists.
func (r *CommissionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM commissions WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check commission: %w", err)
	}
	return n > 0, nil
}

// GetNextID returns the next available commission ID.
func (r *CommissionRepository) GetNextID(ctx context.Context) (string, error) {
	maxID, err := nextNumber(ctx, r.db, "commissions", "COMM")
	if err != nil {
		return "", fmt.Errorf("failed to get next commission ID: %w", err)
	}

	return commission.GenerateCommissionID(maxID), nil
}

// CountShipments returns the number of shipments for a commission.
func (r *CommissionRepository) CountShipments(ctx context.Context, commissionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments WHERE commission_id = ?",
		commissionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shipments: %w", err)
	}

	return count, nil
}

// Ensure CommissionRepository implements the interface
var _ secondary.CommissionRepository = (*CommissionRepository)(nil)
