// Package app contains the application services that coordinate guards,
// repositories and logging for each entity.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	corecommission "github.com/example/ledger/internal/core/commission"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

// CommissionServiceImpl implements the CommissionService interface.
type CommissionServiceImpl struct {
	commissionRepo secondary.CommissionRepository
	audit          auditor
	logger         *zap.Logger
}

// NewCommissionService creates a new CommissionService with injected dependencies.
func NewCommissionService(commissionRepo secondary.CommissionRepository, logWriter secondary.LogWriter, logger *zap.Logger) *CommissionServiceImpl {
	return &CommissionServiceImpl{
		commissionRepo: commissionRepo,
		audit:          newAuditor("commission", logWriter, logger),
		logger:         logger,
	}
}

// CreateCommission creates a new commission.
func (s *CommissionServiceImpl) CreateCommission(ctx context.Context, payload models.CommissionCreate) (models.Commission, error) {
	if err := shape.Check(payload); err != nil {
		return models.Commission{}, err
	}

	result := corecommission.CanCreateCommission(corecommission.CreateContext{Title: payload.Data.Title.Get()})
	if err := result.Error(); err != nil {
		return models.Commission{}, err
	}

	nextID, err := s.commissionRepo.GetNextID(ctx)
	if err != nil {
		return models.Commission{}, fmt.Errorf("failed to generate commission ID: %w", err)
	}

	if err := s.commissionRepo.Create(ctx, nextID, corecommission.InitialStatus(), payload); err != nil {
		return models.Commission{}, fmt.Errorf("failed to create commission: %w", err)
	}

	s.logger.Info("commission created", zap.String("id", nextID))
	s.audit.created(ctx, nextID)
	return s.commissionRepo.GetByID(ctx, nextID)
}

// GetCommission retrieves a commission by ID.
func (s *CommissionServiceImpl) GetCommission(ctx context.Context, commissionID string) (models.Commission, error) {
	return s.commissionRepo.GetByID(ctx, commissionID)
}

// ListCommissions lists commissions with optional filters.
func (s *CommissionServiceImpl) ListCommissions(ctx context.Context, filters primary.CommissionFilters) ([]models.Commission, error) {
	if filters.Status != "" {
		if err := corecommission.CanSetStatus(corecommission.StatusContext{NewStatus: filters.Status}).Error(); err != nil {
			return nil, err
		}
	}
	return s.commissionRepo.List(ctx, secondary.CommissionFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
}

// UpdateCommission applies a patch to a commission.
func (s *CommissionServiceImpl) UpdateCommission(ctx context.Context, commissionID string, patch models.CommissionUpdate) (models.Commission, error) {
	if err := shape.Check(patch); err != nil {
		return models.Commission{}, err
	}

	t := new(touched).
		add("title", patch.Data.Title.Patch()).
		add("description", patch.Data.Description.Patch())

	result := corecommission.CanUpdateCommission(corecommission.UpdateContext{
		CommissionID: commissionID,
		SetFields:    t.set,
		NullFields:   t.null,
		Title:        patch.Data.Title.Get(),
	})
	if err := result.Error(); err != nil {
		return models.Commission{}, err
	}

	if err := s.commissionRepo.Update(ctx, commissionID, patch); err != nil {
		return models.Commission{}, err
	}

	s.logger.Info("commission updated", zap.String("id", commissionID), zap.Strings("fields", t.set))
	s.audit.updated(ctx, commissionID, t)
	return s.commissionRepo.GetByID(ctx, commissionID)
}

// SetCommissionStatus moves a commission to a new status.
func (s *CommissionServiceImpl) SetCommissionStatus(ctx context.Context, commissionID, status string) error {
	commission, err := s.commissionRepo.GetByID(ctx, commissionID)
	if err != nil {
		return err
	}

	result := corecommission.CanSetStatus(corecommission.StatusContext{
		CommissionID: commissionID,
		NewStatus:    status,
		IsPinned:     commission.Data.Pinned.Get(),
	})
	if err := result.Error(); err != nil {
		return err
	}

	if err := s.commissionRepo.SetStatus(ctx, commissionID, status); err != nil {
		return err
	}

	s.logger.Info("commission status changed",
		zap.String("id", commissionID),
		zap.String("from", commission.Data.Status.Get()),
		zap.String("to", status),
	)
	s.audit.changed(ctx, commissionID, "status", commission.Data.Status.Get(), status)
	return nil
}

// PinCommission pins a commission.
func (s *CommissionServiceImpl) PinCommission(ctx context.Context, commissionID string) error {
	return s.setPinned(ctx, commissionID, true)
}

// UnpinCommission unpins a commission.
func (s *CommissionServiceImpl) UnpinCommission(ctx context.Context, commissionID string) error {
	return s.setPinned(ctx, commissionID, false)
}

func (s *CommissionServiceImpl) setPinned(ctx context.Context, commissionID string, pinned bool) error {
	commission, err := s.commissionRepo.GetByID(ctx, commissionID)
	if err != nil {
		return err
	}
	if err := s.commissionRepo.SetPinned(ctx, commissionID, pinned); err != nil {
		return err
	}
	s.audit.toggled(ctx, commissionID, "pinned", commission.Data.Pinned.Get(), pinned)
	return nil
}

// DeleteCommission deletes a commission.
func (s *CommissionServiceImpl) DeleteCommission(ctx context.Context, req primary.DeleteCommissionRequest) error {
	shipmentCount, err := s.commissionRepo.CountShipments(ctx, req.CommissionID)
	if err != nil {
		return fmt.Errorf("failed to count shipments: %w", err)
	}

	result := corecommission.CanDeleteCommission(corecommission.DeleteContext{
		CommissionID:  req.CommissionID,
		ShipmentCount: shipmentCount,
		ForceDelete:   req.Force,
	})
	if err := result.Error(); err != nil {
		return err
	}

	if err := s.commissionRepo.Delete(ctx, req.CommissionID); err != nil {
		return err
	}

	s.logger.Info("commission deleted", zap.String("id", req.CommissionID), zap.Int("shipments", shipmentCount))
	s.audit.deleted(ctx, req.CommissionID)
	return nil
}

// Ensure CommissionServiceImpl implements the interface
var _ primary.CommissionService = (*CommissionServiceImpl)(nil)
