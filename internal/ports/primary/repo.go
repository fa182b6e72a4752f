package primary

import (
	"context"

	"github.com/example/ledger/internal/models"
)

// RepoService defines the primary port for repository operations.
type RepoService interface {
	// CreateRepo creates a new repository configuration.
	CreateRepo(ctx context.Context, payload models.RepoCreate) (models.Repo, error)

	// GetRepo retrieves a repository by ID or, failing that, by name.
	GetRepo(ctx context.Context, idOrName string) (models.Repo, error)

	// ListRepos lists every repository.
	ListRepos(ctx context.Context) ([]models.Repo, error)

	// DeleteRepo deletes a repository no shipment links to.
	DeleteRepo(ctx context.Context, repoID string) error
}
