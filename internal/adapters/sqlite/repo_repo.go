package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/collect"
	corerepo "github.com/example/ledger/internal/core/repo"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
)

const repoSelectSQL = "SELECT " + repoColumns + " FROM repos r"

// RepoRepository implements secondary.RepoRepository with SQLite.
type RepoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepoRepository creates a new SQLite repository repository.
func NewRepoRepository(db *sql.DB, logger *zap.Logger) *RepoRepository {
	return &RepoRepository{db: db, logger: logger}
}

// Create persists a new repository.
func (r *RepoRepository) Create(ctx context.Context, id string, repo models.RepoCreate) error {
	defaultBranch := repo.Data.DefaultBranch.Get()
	if defaultBranch == "" {
		defaultBranch = models.DefaultBranch
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO repos (id, name, url, default_branch) VALUES (?, ?, ?, ?)",
		id, repo.Data.Name.Get(), repo.Data.URL.Get(), defaultBranch,
	)
	if err != nil {
		return fmt.Errorf("failed to create repo: %w", err)
	}

	return nil
}

func (r *RepoRepository) getOne(ctx context.Context, where string, arg any) (models.Repo, error) {
	return query(ctx, r.db, scanRepoRow, func(rows grouping.Stream[joinedRow]) (models.Repo, error) {
		return collect.One(ctx, rows, repoID, buildRepo)
	}, repoSelectSQL+" WHERE "+where, arg)
}

// GetByID retrieves a repository by its ID.
func (r *RepoRepository) GetByID(ctx context.Context, id string) (models.Repo, error) {
	repo, err := r.getOne(ctx, "r.id = ?", id)
	if errors.Is(err, collect.ErrNotFound) {
		return models.Repo{}, fmt.Errorf("repository %s %w", id, err)
	}
	if err != nil {
		return models.Repo{}, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// GetByName retrieves a repository by its unique name.
func (r *RepoRepository) GetByName(ctx context.Context, name string) (models.Repo, error) {
	repo, err := r.getOne(ctx, "r.name = ?", name)
	if errors.Is(err, collect.ErrNotFound) {
		return models.Repo{}, fmt.Errorf("repository %q %w", name, err)
	}
	if err != nil {
		return models.Repo{}, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// List retrieves all repositories.
func (r *RepoRepository) List(ctx context.Context) ([]models.Repo, error) {
	repos, err := query(ctx, r.db, scanRepoRow, func(rows grouping.Stream[joinedRow]) ([]models.Repo, error) {
		return collect.All(ctx, rows, repoID, buildRepo)
	}, repoSelectSQL+" ORDER BY r.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	r.logger.Debug("repositories collected", zap.Int("count", len(repos)))
	return repos, nil
}

// Delete removes a repository from persistence.
func (r *RepoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM repos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repository %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available repository ID.
func (r *RepoRepository) GetNextID(ctx context.Context) (string, error) {
	maxID, err := nextNumber(ctx, r.db, "repos", "REPO")
	if err != nil {
		return "", fmt.Errorf("failed to get next repo ID: %w", err)
	}

	return corerepo.GenerateRepoID(maxID), nil
}

// CountShipments returns the number of shipments linked to a repository.
func (r *RepoRepository) CountShipments(ctx context.Context, repoID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shipments WHERE repo_id = ?", repoID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shipments: %w", err)
	}
	return count, nil
}

// Ensure RepoRepository implements the interface
var _ secondary.RepoRepository = (*RepoRepository)(nil)
