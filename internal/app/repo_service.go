package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/core/repo"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

// RepoServiceImpl implements the RepoService interface.
type RepoServiceImpl struct {
	repoRepo secondary.RepoRepository
	audit    auditor
	logger   *zap.Logger
}

// NewRepoService creates a new RepoService with injected dependencies.
func NewRepoService(repoRepo secondary.RepoRepository, logWriter secondary.LogWriter, logger *zap.Logger) *RepoServiceImpl {
	return &RepoServiceImpl{
		repoRepo: repoRepo,
		audit:    newAuditor("repo", logWriter, logger),
		logger:   logger,
	}
}

// CreateRepo creates a new repository.
func (s *RepoServiceImpl) CreateRepo(ctx context.Context, payload models.RepoCreate) (models.Repo, error) {
	if err := shape.Check(payload); err != nil {
		return models.Repo{}, err
	}

	// Check if name already exists
	name := payload.Data.Name.Get()
	_, err := s.repoRepo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, secondary.ErrNotFound) {
		return models.Repo{}, fmt.Errorf("failed to check name uniqueness: %w", err)
	}

	result := repo.CanCreateRepo(repo.CreateRepoContext{
		Name:       name,
		NameExists: err == nil,
	})
	if err := result.Error(); err != nil {
		return models.Repo{}, err
	}

	nextID, err := s.repoRepo.GetNextID(ctx)
	if err != nil {
		return models.Repo{}, fmt.Errorf("failed to generate repository ID: %w", err)
	}

	if err := s.repoRepo.Create(ctx, nextID, payload); err != nil {
		return models.Repo{}, fmt.Errorf("failed to create repository: %w", err)
	}

	s.logger.Info("repository created", zap.String("id", nextID), zap.String("name", name))
	s.audit.created(ctx, nextID)
	return s.repoRepo.GetByID(ctx, nextID)
}

// GetRepo retrieves a repository by ID, falling back to its name.
func (s *RepoServiceImpl) GetRepo(ctx context.Context, idOrName string) (models.Repo, error) {
	r, err := s.repoRepo.GetByID(ctx, idOrName)
	if errors.Is(err, secondary.ErrNotFound) {
		return s.repoRepo.GetByName(ctx, idOrName)
	}
	return r, err
}

// ListRepos lists every repository.
func (s *RepoServiceImpl) ListRepos(ctx context.Context) ([]models.Repo, error) {
	return s.repoRepo.List(ctx)
}

// DeleteRepo deletes a repository.
func (s *RepoServiceImpl) DeleteRepo(ctx context.Context, repoID string) error {
	count, err := s.repoRepo.CountShipments(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to count shipments: %w", err)
	}

	result := repo.CanDeleteRepo(repo.DeleteRepoContext{RepoID: repoID, ShipmentCount: count})
	if err := result.Error(); err != nil {
		return err
	}

	if err := s.repoRepo.Delete(ctx, repoID); err != nil {
		return err
	}

	s.logger.Info("repository deleted", zap.String("id", repoID))
	s.audit.deleted(ctx, repoID)
	return nil
}

// Ensure RepoServiceImpl implements the interface
var _ primary.RepoService = (*RepoServiceImpl)(nil)
