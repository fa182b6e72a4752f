package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	coreshipment "github.com/example/ledger/internal/core/shipment"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

// ShipmentServiceImpl implements the ShipmentService interface.
type ShipmentServiceImpl struct {
	shipmentRepo   secondary.ShipmentRepository
	commissionRepo secondary.CommissionRepository
	repoRepo       secondary.RepoRepository
	branchPrefix   string
	audit          auditor
	logger         *zap.Logger
}

// NewShipmentService creates a new ShipmentService with injected dependencies.
// branchPrefix is prepended to generated branch names.
func NewShipmentService(
	shipmentRepo secondary.ShipmentRepository,
	commissionRepo secondary.CommissionRepository,
	repoRepo secondary.RepoRepository,
	branchPrefix string,
	logWriter secondary.LogWriter,
	logger *zap.Logger,
) *ShipmentServiceImpl {
	return &ShipmentServiceImpl{
		shipmentRepo:   shipmentRepo,
		commissionRepo: commissionRepo,
		repoRepo:       repoRepo,
		branchPrefix:   branchPrefix,
		audit:          newAuditor("shipment", logWriter, logger),
		logger:         logger,
	}
}

// CreateShipment creates a new shipment for a commission.
func (s *ShipmentServiceImpl) CreateShipment(ctx context.Context, payload models.ShipmentCreate) (models.Shipment, error) {
	if err := shape.Check(payload); err != nil {
		return models.Shipment{}, err
	}

	commissionID := payload.Data.CommissionID.Get()
	exists, err := s.commissionRepo.Exists(ctx, commissionID)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("failed to validate commission: %w", err)
	}

	repoID, repoExists, err := s.resolveRepo(ctx, payload.Data.Repo.Get())
	if err != nil {
		return models.Shipment{}, err
	}

	result := coreshipment.CanCreateShipment(coreshipment.CreateShipmentContext{
		CommissionID:     commissionID,
		CommissionExists: exists,
		RepoID:           repoID,
		RepoExists:       repoExists,
	})
	if err := result.Error(); err != nil {
		return models.Shipment{}, err
	}

	nextID, err := s.shipmentRepo.GetNextID(ctx)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("failed to generate shipment ID: %w", err)
	}

	// A linked shipment without a branch gets a generated one.
	if repoID != "" && payload.Data.Branch.Get() == nil {
		branch := GenerateShipmentBranchName(s.branchPrefix, nextID, payload.Data.Title.Get())
		payload.Data.Branch = shape.DataOf[shape.Create](&branch)
	}

	if err := s.shipmentRepo.Create(ctx, nextID, coreshipment.InitialStatus(), payload); err != nil {
		return models.Shipment{}, fmt.Errorf("failed to create shipment: %w", err)
	}

	s.logger.Info("shipment created", zap.String("id", nextID), zap.String("commission", commissionID))
	s.audit.created(ctx, nextID)
	return s.shipmentRepo.GetByID(ctx, nextID)
}

// resolveRepo reports the id a repo reference points at and whether that
// repo exists. A nil reference resolves to the empty id.
func (s *ShipmentServiceImpl) resolveRepo(ctx context.Context, ref *models.RepoRef) (string, bool, error) {
	if ref == nil {
		return "", false, nil
	}
	id := ref.ID.Get()
	_, err := s.repoRepo.GetByID(ctx, id)
	if errors.Is(err, secondary.ErrNotFound) {
		return id, false, nil
	}
	if err != nil {
		return id, false, fmt.Errorf("failed to validate repo: %w", err)
	}
	return id, true, nil
}

// GetShipment retrieves a shipment by ID.
func (s *ShipmentServiceImpl) GetShipment(ctx context.Context, shipmentID string) (models.Shipment, error) {
	return s.shipmentRepo.GetByID(ctx, shipmentID)
}

// ListShipments lists shipments with optional filters.
func (s *ShipmentServiceImpl) ListShipments(ctx context.Context, filters primary.ShipmentFilters) ([]models.Shipment, error) {
	return s.shipmentRepo.List(ctx, secondary.ShipmentFilters{
		CommissionID: filters.CommissionID,
		Status:       filters.Status,
	})
}

// UpdateShipment applies a patch to a shipment.
func (s *ShipmentServiceImpl) UpdateShipment(ctx context.Context, shipmentID string, patch models.ShipmentUpdate) (models.Shipment, error) {
	if err := shape.Check(patch); err != nil {
		return models.Shipment{}, err
	}

	t := new(touched).
		add("commission_id", patch.Data.CommissionID.Patch()).
		add("title", patch.Data.Title.Patch()).
		add("description", patch.Data.Description.Patch()).
		add("branch", patch.Data.Branch.Patch()).
		add("repo", patch.Data.Repo.Patch())

	guardCtx := coreshipment.UpdateShipmentContext{
		ShipmentID: shipmentID,
		SetFields:  t.set,
		NullFields: t.null,
	}

	if commissionID, ok := patch.Data.CommissionID.Lookup(); ok {
		exists, err := s.commissionRepo.Exists(ctx, commissionID)
		if err != nil {
			return models.Shipment{}, fmt.Errorf("failed to validate commission: %w", err)
		}
		guardCtx.CommissionID = commissionID
		guardCtx.CommissionExists = exists
	}

	if ref, ok := patch.Data.Repo.Lookup(); ok {
		repoID, exists, err := s.resolveRepo(ctx, ref)
		if err != nil {
			return models.Shipment{}, err
		}
		guardCtx.RepoID = repoID
		guardCtx.RepoExists = exists
	}

	if err := coreshipment.CanUpdateShipment(guardCtx).Error(); err != nil {
		return models.Shipment{}, err
	}

	if err := s.shipmentRepo.Update(ctx, shipmentID, patch); err != nil {
		return models.Shipment{}, err
	}

	s.logger.Info("shipment updated", zap.String("id", shipmentID), zap.Strings("fields", t.set))
	s.audit.updated(ctx, shipmentID, t)
	return s.shipmentRepo.GetByID(ctx, shipmentID)
}

// SetShipmentStatus moves a shipment to a new status.
func (s *ShipmentServiceImpl) SetShipmentStatus(ctx context.Context, req primary.SetShipmentStatusRequest) error {
	shipment, err := s.shipmentRepo.GetByID(ctx, req.ShipmentID)
	if err != nil {
		return err
	}

	tasks := shipment.Data.Tasks.Get()
	summaries := make([]coreshipment.TaskSummary, len(tasks))
	for i, t := range tasks {
		summaries[i] = coreshipment.TaskSummary{ID: t.ID.Get(), Status: t.Data.Status.Get()}
	}

	result := coreshipment.CanSetStatus(coreshipment.StatusContext{
		ShipmentID:      req.ShipmentID,
		CurrentStatus:   shipment.Data.Status.Get(),
		NewStatus:       req.Status,
		Tasks:           summaries,
		ForceCompletion: req.Force,
	})
	if err := result.Error(); err != nil {
		return err
	}

	if err := s.shipmentRepo.SetStatus(ctx, req.ShipmentID, req.Status); err != nil {
		return err
	}

	s.logger.Info("shipment status changed",
		zap.String("id", req.ShipmentID),
		zap.String("from", shipment.Data.Status.Get()),
		zap.String("to", req.Status),
		zap.Bool("forced", req.Force),
	)
	s.audit.changed(ctx, req.ShipmentID, "status", shipment.Data.Status.Get(), req.Status)
	return nil
}

// DeleteShipment deletes a shipment and its tasks.
func (s *ShipmentServiceImpl) DeleteShipment(ctx context.Context, shipmentID string) error {
	if err := s.shipmentRepo.Delete(ctx, shipmentID); err != nil {
		return err
	}
	s.logger.Info("shipment deleted", zap.String("id", shipmentID))
	s.audit.deleted(ctx, shipmentID)
	return nil
}

// Ensure ShipmentServiceImpl implements the interface
var _ primary.ShipmentService = (*ShipmentServiceImpl)(nil)
