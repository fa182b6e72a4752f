package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

type query = shape.Query

func ptr[T any](v T) *T { return &v }

// apply writes a patch onto a stored field.
func apply[T any](dst *shape.Data[query, T], p shape.Patch[T]) {
	if v, ok := p.Get(); ok {
		*dst = shape.DataOf[query](v)
		return
	}
	if p.IsNull() {
		var zero T
		*dst = shape.DataOf[query](zero)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockCommissionRepository implements secondary.CommissionRepository for testing.
type mockCommissionRepository struct {
	commissions   map[string]models.Commission
	shipmentCount map[string]int
	nextID        string
	createErr     error
	getErr        error
	updateErr     error
	deleteErr     error
}

func newMockCommissionRepository() *mockCommissionRepository {
	return &mockCommissionRepository{
		commissions:   make(map[string]models.Commission),
		shipmentCount: make(map[string]int),
		nextID:        "COMM-001",
	}
}

func (m *mockCommissionRepository) put(id, title, status string, pinned bool) {
	m.commissions[id] = models.Commission{
		ID:      shape.KeyOf[query](id),
		Created: shape.MetaOf[query](time.Now()),
		Updated: shape.MetaOf[query]((*time.Time)(nil)),
		Data: models.CommissionData[query]{
			Title:       shape.DataOf[query](title),
			Description: shape.DataOf[query]((*string)(nil)),
			Status:      shape.MetaOf[query](status),
			Pinned:      shape.MetaOf[query](pinned),
			Shipments:   shape.MetaOf[query]([]models.Shipment{}),
		},
	}
}

func (m *mockCommissionRepository) Create(ctx context.Context, id, status string, c models.CommissionCreate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(id, c.Data.Title.Get(), status, false)
	stored := m.commissions[id]
	stored.Data.Description = shape.DataOf[query](c.Data.Description.Get())
	m.commissions[id] = stored
	return nil
}

func (m *mockCommissionRepository) GetByID(ctx context.Context, id string) (models.Commission, error) {
	if m.getErr != nil {
		return models.Commission{}, m.getErr
	}
	if c, ok := m.commissions[id]; ok {
		return c, nil
	}
	return models.Commission{}, fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
}

func (m *mockCommissionRepository) List(ctx context.Context, filters secondary.CommissionFilters) ([]models.Commission, error) {
	result := []models.Commission{}
	for _, id := range sortedKeys(m.commissions) {
		c := m.commissions[id]
		if filters.Status == "" || c.Data.Status.Get() == filters.Status {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCommissionRepository) Update(ctx context.Context, id string, patch models.CommissionUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.commissions[id]
	if !ok {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}
	apply(&c.Data.Title, patch.Data.Title.Patch())
	apply(&c.Data.Description, patch.Data.Description.Patch())
	m.commissions[id] = c
	return nil
}

func (m *mockCommissionRepository) SetStatus(ctx context.Context, id, status string) error {
	c, ok := m.commissions[id]
	if !ok {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}
	c.Data.Status = shape.MetaOf[query](status)
	m.commissions[id] = c
	return nil
}

func (m *mockCommissionRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	c, ok := m.commissions[id]
	if !ok {
		return fmt.Errorf("commission %s %w", id, secondary.ErrNotFound)
	}
	c.Data.Pinned = shape.MetaOf[query](pinned)
	m.commissions[id] = c
	return nil
}

func (m *mockCommissionRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.commissions, id)
	return nil
}

func (m *mockCommissionRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.commissions[id]
	return ok, nil
}

func (m *mockCommissionRepository) GetNextID(ctx context.Context) (string, error) {
	return m.nextID, nil
}

func (m *mockCommissionRepository) CountShipments(ctx context.Context, commissionID string) (int, error) {
	return m.shipmentCount[commissionID], nil
}

// mockShipmentRepository implements secondary.ShipmentRepository for testing.
type mockShipmentRepository struct {
	shipments map[string]models.Shipment
	created   map[string]models.ShipmentCreate
	nextID    string
	createErr error
	getErr    error
}

func newMockShipmentRepository() *mockShipmentRepository {
	return &mockShipmentRepository{
		shipments: make(map[string]models.Shipment),
		created:   make(map[string]models.ShipmentCreate),
		nextID:    "SHIP-001",
	}
}

func (m *mockShipmentRepository) put(id, commissionID, status string, taskStatuses ...string) {
	tasks := []models.Task{}
	for i, st := range taskStatuses {
		tasks = append(tasks, models.Task{
			ID:      shape.KeyOf[query](fmt.Sprintf("TASK-%03d", i+1)),
			Created: shape.MetaOf[query](time.Now()),
			Updated: shape.MetaOf[query]((*time.Time)(nil)),
			Data: models.TaskData[query]{
				ShipmentID:  shape.DataOf[query](id),
				Title:       shape.DataOf[query]("task"),
				Description: shape.DataOf[query]((*string)(nil)),
				Priority:    shape.DataOf[query]((*int)(nil)),
				Status:      shape.MetaOf[query](st),
			},
		})
	}
	m.shipments[id] = models.Shipment{
		ID:      shape.KeyOf[query](id),
		Created: shape.MetaOf[query](time.Now()),
		Updated: shape.MetaOf[query]((*time.Time)(nil)),
		Data: models.ShipmentData[query]{
			CommissionID: shape.DataOf[query](commissionID),
			Title:        shape.DataOf[query]("shipment"),
			Description:  shape.DataOf[query]((*string)(nil)),
			Status:       shape.MetaOf[query](status),
			Branch:       shape.DataOf[query]((*string)(nil)),
			Repo:         shape.DataOf[query]((*models.RepoRef)(nil)),
			Tasks:        shape.MetaOf[query](tasks),
		},
	}
}

func (m *mockShipmentRepository) Create(ctx context.Context, id, status string, s models.ShipmentCreate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created[id] = s
	m.put(id, s.Data.CommissionID.Get(), status)
	stored := m.shipments[id]
	stored.Data.Title = shape.DataOf[query](s.Data.Title.Get())
	stored.Data.Branch = shape.DataOf[query](s.Data.Branch.Get())
	m.shipments[id] = stored
	return nil
}

func (m *mockShipmentRepository) GetByID(ctx context.Context, id string) (models.Shipment, error) {
	if m.getErr != nil {
		return models.Shipment{}, m.getErr
	}
	if s, ok := m.shipments[id]; ok {
		return s, nil
	}
	return models.Shipment{}, fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
}

func (m *mockShipmentRepository) List(ctx context.Context, filters secondary.ShipmentFilters) ([]models.Shipment, error) {
	result := []models.Shipment{}
	for _, id := range sortedKeys(m.shipments) {
		s := m.shipments[id]
		if filters.CommissionID != "" && s.Data.CommissionID.Get() != filters.CommissionID {
			continue
		}
		if filters.Status != "" && s.Data.Status.Get() != filters.Status {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *mockShipmentRepository) Update(ctx context.Context, id string, patch models.ShipmentUpdate) error {
	s, ok := m.shipments[id]
	if !ok {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}
	apply(&s.Data.CommissionID, patch.Data.CommissionID.Patch())
	apply(&s.Data.Title, patch.Data.Title.Patch())
	apply(&s.Data.Description, patch.Data.Description.Patch())
	apply(&s.Data.Branch, patch.Data.Branch.Patch())
	m.shipments[id] = s
	return nil
}

func (m *mockShipmentRepository) SetStatus(ctx context.Context, id, status string) error {
	s, ok := m.shipments[id]
	if !ok {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}
	s.Data.Status = shape.MetaOf[query](status)
	m.shipments[id] = s
	return nil
}

func (m *mockShipmentRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.shipments[id]; !ok {
		return fmt.Errorf("shipment %s %w", id, secondary.ErrNotFound)
	}
	delete(m.shipments, id)
	return nil
}

func (m *mockShipmentRepository) GetNextID(ctx context.Context) (string, error) {
	return m.nextID, nil
}

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	tasks     map[string]models.Task
	nextID    string
	createErr error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:  make(map[string]models.Task),
		nextID: "TASK-001",
	}
}

func (m *mockTaskRepository) Create(ctx context.Context, id, status string, t models.TaskCreate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.tasks[id] = models.Task{
		ID:      shape.KeyOf[query](id),
		Created: shape.MetaOf[query](time.Now()),
		Updated: shape.MetaOf[query]((*time.Time)(nil)),
		Data: models.TaskData[query]{
			ShipmentID:  shape.DataOf[query](t.Data.ShipmentID.Get()),
			Title:       shape.DataOf[query](t.Data.Title.Get()),
			Description: shape.DataOf[query](t.Data.Description.Get()),
			Priority:    shape.DataOf[query](t.Data.Priority.Get()),
			Status:      shape.MetaOf[query](status),
		},
	}
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return models.Task{}, fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]models.Task, error) {
	result := []models.Task{}
	for _, id := range sortedKeys(m.tasks) {
		t := m.tasks[id]
		if filters.ShipmentID != "" && t.Data.ShipmentID.Get() != filters.ShipmentID {
			continue
		}
		if filters.Status != "" && t.Data.Status.Get() != filters.Status {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, id string, patch models.TaskUpdate) error {
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	apply(&t.Data.ShipmentID, patch.Data.ShipmentID.Patch())
	apply(&t.Data.Title, patch.Data.Title.Patch())
	apply(&t.Data.Description, patch.Data.Description.Patch())
	apply(&t.Data.Priority, patch.Data.Priority.Patch())
	m.tasks[id] = t
	return nil
}

func (m *mockTaskRepository) SetStatus(ctx context.Context, id, status string) error {
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	t.Data.Status = shape.MetaOf[query](status)
	m.tasks[id] = t
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepository) GetNextID(ctx context.Context) (string, error) {
	return m.nextID, nil
}

// mockRepoRepository implements secondary.RepoRepository for testing.
type mockRepoRepository struct {
	repos         map[string]models.Repo
	shipmentCount map[string]int
	nextID        string
	getByNameErr  error
}

func newMockRepoRepository() *mockRepoRepository {
	return &mockRepoRepository{
		repos:         make(map[string]models.Repo),
		shipmentCount: make(map[string]int),
		nextID:        "REPO-001",
	}
}

func (m *mockRepoRepository) Create(ctx context.Context, id string, r models.RepoCreate) error {
	m.repos[id] = models.Repo{
		ID:      shape.KeyOf[query](id),
		Created: shape.MetaOf[query](time.Now()),
		Updated: shape.MetaOf[query]((*time.Time)(nil)),
		Data: models.RepoData[query]{
			Name:          shape.DataOf[query](r.Data.Name.Get()),
			URL:           shape.DataOf[query](r.Data.URL.Get()),
			DefaultBranch: shape.DataOf[query](r.Data.DefaultBranch.Get()),
		},
	}
	return nil
}

func (m *mockRepoRepository) GetByID(ctx context.Context, id string) (models.Repo, error) {
	if r, ok := m.repos[id]; ok {
		return r, nil
	}
	return models.Repo{}, fmt.Errorf("repository %s %w", id, secondary.ErrNotFound)
}

func (m *mockRepoRepository) GetByName(ctx context.Context, name string) (models.Repo, error) {
	if m.getByNameErr != nil {
		return models.Repo{}, m.getByNameErr
	}
	for _, r := range m.repos {
		if r.Data.Name.Get() == name {
			return r, nil
		}
	}
	return models.Repo{}, fmt.Errorf("repository %q %w", name, secondary.ErrNotFound)
}

func (m *mockRepoRepository) List(ctx context.Context) ([]models.Repo, error) {
	result := []models.Repo{}
	for _, id := range sortedKeys(m.repos) {
		result = append(result, m.repos[id])
	}
	return result, nil
}

func (m *mockRepoRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.repos[id]; !ok {
		return fmt.Errorf("repository %s %w", id, secondary.ErrNotFound)
	}
	delete(m.repos, id)
	return nil
}

func (m *mockRepoRepository) GetNextID(ctx context.Context) (string, error) {
	return m.nextID, nil
}

func (m *mockRepoRepository) CountShipments(ctx context.Context, repoID string) (int, error) {
	return m.shipmentCount[repoID], nil
}

var (
	_ secondary.CommissionRepository = (*mockCommissionRepository)(nil)
	_ secondary.ShipmentRepository   = (*mockShipmentRepository)(nil)
	_ secondary.TaskRepository       = (*mockTaskRepository)(nil)
	_ secondary.RepoRepository       = (*mockRepoRepository)(nil)
)
