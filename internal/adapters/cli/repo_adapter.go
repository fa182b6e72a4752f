package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/shape"
)

// RepoAdapter is a thin adapter that translates CLI operations to RepoService calls.
type RepoAdapter struct {
	service primary.RepoService
	out     io.Writer
	output  Output
}

// NewRepoAdapter creates a new RepoAdapter with the given service.
func NewRepoAdapter(service primary.RepoService, out io.Writer, output Output) *RepoAdapter {
	return &RepoAdapter{
		service: service,
		out:     out,
		output:  output,
	}
}

// Create creates a new repository. An empty default branch becomes "main".
func (a *RepoAdapter) Create(ctx context.Context, name, url, defaultBranch string) error {
	if defaultBranch == "" {
		defaultBranch = models.DefaultBranch
	}

	type create = shape.Create
	r, err := a.service.CreateRepo(ctx, models.RepoCreate{Data: models.RepoData[create]{
		Name:          shape.DataOf[create](name),
		URL:           shape.DataOf[create](optional(url)),
		DefaultBranch: shape.DataOf[create](defaultBranch),
	}})
	if err != nil {
		return err
	}

	if ok, err := a.output.structured(a.out, r); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created repository %s: %s\n", r.ID.Get(), r.Data.Name.Get())
	return nil
}

// List lists every repository.
func (a *RepoAdapter) List(ctx context.Context) error {
	repos, err := a.service.ListRepos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	if ok, err := a.output.structured(a.out, repos); ok {
		return err
	}

	if len(repos) == 0 {
		fmt.Fprintln(a.out, "No repositories found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-20s %-10s %s\n", "ID", "NAME", "BRANCH", "URL")
	fmt.Fprintln(a.out, rule)
	for _, r := range repos {
		url, _ := deref(r.Data.URL.Get())
		fmt.Fprintf(a.out, "%-10s %-20s %-10s %s\n", r.ID.Get(), r.Data.Name.Get(), r.Data.DefaultBranch.Get(), url)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a repository, looked up by ID or name.
func (a *RepoAdapter) Show(ctx context.Context, idOrName string) error {
	r, err := a.service.GetRepo(ctx, idOrName)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	if ok, err := a.output.structured(a.out, r); ok {
		return err
	}

	fmt.Fprintf(a.out, "\nRepository: %s\n", r.ID.Get())
	fmt.Fprintf(a.out, "Name:    %s\n", r.Data.Name.Get())
	fmt.Fprintf(a.out, "Branch:  %s\n", r.Data.DefaultBranch.Get())
	if url, ok := deref(r.Data.URL.Get()); ok {
		fmt.Fprintf(a.out, "URL:     %s\n", url)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Delete deletes a repository.
func (a *RepoAdapter) Delete(ctx context.Context, repoID string) error {
	if err := a.service.DeleteRepo(ctx, repoID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Repository %s deleted\n", repoID)
	return nil
}
