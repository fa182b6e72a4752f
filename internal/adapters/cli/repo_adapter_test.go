package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

func testRepo(id, name string, url *string) models.Repo {
	return models.Repo{
		ID:      shape.KeyOf[query](id),
		Created: shape.MetaOf[query](created),
		Updated: shape.MetaOf[query]((*time.Time)(nil)),
		Data: models.RepoData[query]{
			Name:          shape.DataOf[query](name),
			URL:           shape.DataOf[query](url),
			DefaultBranch: shape.DataOf[query]("main"),
		},
	}
}

// mockRepoService implements primary.RepoService for testing
type mockRepoService struct {
	repos      []models.Repo
	lastCreate models.RepoCreate
	deleteErr  error
}

func (m *mockRepoService) CreateRepo(ctx context.Context, payload models.RepoCreate) (models.Repo, error) {
	m.lastCreate = payload
	return testRepo("REPO-001", payload.Data.Name.Get(), payload.Data.URL.Get()), nil
}

func (m *mockRepoService) GetRepo(ctx context.Context, idOrName string) (models.Repo, error) {
	for _, r := range m.repos {
		if r.ID.Get() == idOrName || r.Data.Name.Get() == idOrName {
			return r, nil
		}
	}
	return models.Repo{}, secondary.ErrNotFound
}

func (m *mockRepoService) ListRepos(ctx context.Context) ([]models.Repo, error) {
	return m.repos, nil
}

func (m *mockRepoService) DeleteRepo(ctx context.Context, id string) error { return m.deleteErr }

func TestRepoAdapter_CreateDefaultsBranch(t *testing.T) {
	var buf bytes.Buffer
	service := &mockRepoService{}
	adapter := NewRepoAdapter(service, &buf, TextOutput)

	require.NoError(t, adapter.Create(context.Background(), "ledger", "", ""))

	assert.Equal(t, "main", service.lastCreate.Data.DefaultBranch.Get())
	assert.Nil(t, service.lastCreate.Data.URL.Get())
	assert.Equal(t, "✓ Created repository REPO-001: ledger\n", buf.String())
}

func TestRepoAdapter_ListAndShow(t *testing.T) {
	var buf bytes.Buffer
	service := &mockRepoService{repos: []models.Repo{
		testRepo("REPO-001", "ledger", ptr("git@example.com:ledger.git")),
		testRepo("REPO-002", "docs", nil),
	}}
	adapter := NewRepoAdapter(service, &buf, TextOutput)

	require.NoError(t, adapter.List(context.Background()))
	assert.Contains(t, buf.String(), "REPO-001   ledger               main       git@example.com:ledger.git\n")
	assert.Contains(t, buf.String(), "REPO-002   docs                 main       \n")

	buf.Reset()
	require.NoError(t, adapter.Show(context.Background(), "docs"))
	assert.Contains(t, buf.String(), "Repository: REPO-002\n")
	assert.NotContains(t, buf.String(), "URL:")

	err := adapter.Show(context.Background(), "missing")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
	assert.ErrorContains(t, err, "failed to get repository")
}

func TestRepoAdapter_Delete(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewRepoAdapter(&mockRepoService{}, &buf, TextOutput)
	require.NoError(t, adapter.Delete(context.Background(), "REPO-001"))
	assert.Equal(t, "✓ Repository REPO-001 deleted\n", buf.String())

	adapter = NewRepoAdapter(&mockRepoService{deleteErr: errors.New("repo REPO-001 is used by 2 shipment(s)")}, &buf, TextOutput)
	assert.EqualError(t, adapter.Delete(context.Background(), "REPO-001"), "repo REPO-001 is used by 2 shipment(s)")
}
