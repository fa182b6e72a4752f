package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/ledger/internal/adapters/sqlite"
	corecommission "github.com/example/ledger/internal/core/commission"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/secondary"
	"github.com/example/ledger/internal/shape"
)

// createTestCommission simulates service-layer behavior: gets next ID, sets
// initial status, then creates.
func createTestCommission(t *testing.T, repo *sqlite.CommissionRepository, ctx context.Context, title string, description *string) string {
	t.Helper()

	nextID, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}

	if err := repo.Create(ctx, nextID, corecommission.InitialStatus(), newCommission(title, description)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	return nextID
}

func TestCommissionRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	err := repo.Create(ctx, "COMM-001", "active", newCommission("Test Commission", ptr("A test commission description")))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "COMM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Data.Title.Get() != "Test Commission" {
		t.Errorf("expected title 'Test Commission', got %q", retrieved.Data.Title.Get())
	}
	if d := retrieved.Data.Description.Get(); d == nil || *d != "A test commission description" {
		t.Errorf("unexpected description %v", d)
	}
	if retrieved.Data.Status.Get() != "active" {
		t.Errorf("expected status 'active', got %q", retrieved.Data.Status.Get())
	}
	if retrieved.Created.Get().IsZero() {
		t.Error("expected created timestamp to be set")
	}
	if retrieved.Updated.Get() != nil {
		t.Error("expected updated timestamp to be null on a fresh commission")
	}
	if err := shape.Check(retrieved); err != nil {
		t.Errorf("read record fails its shape: %v", err)
	}
}

func TestCommissionRepository_Create_RequiresID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())

	err := repo.Create(context.Background(), "", "active", newCommission("x", nil))
	if err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestCommissionRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())

	_, err := repo.GetByID(context.Background(), "COMM-999")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "commission COMM-999 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCommissionRepository_GetByID_NestedTree(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCommission(t, db, "COMM-001", "Tree")
	seedShipment(t, db, "SHIP-002", "COMM-001", "Second")
	seedShipment(t, db, "SHIP-001", "COMM-001", "First")
	seedTask(t, db, "TASK-003", "SHIP-001", "c")
	seedTask(t, db, "TASK-001", "SHIP-001", "a")
	seedTask(t, db, "TASK-002", "SHIP-002", "b")
	seedRepo(t, db, "REPO-001", "ledger")
	linkRepo(t, db, "SHIP-001", "REPO-001")

	repo := sqlite.NewCommissionRepository(db, testLogger())
	c, err := repo.GetByID(ctx, "COMM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	shipments := c.Data.Shipments.Get()
	if got := ids(shipments); len(got) != 2 || got[0] != "SHIP-001" || got[1] != "SHIP-002" {
		t.Fatalf("unexpected shipments %v", got)
	}
	if got := ids(shipments[0].Data.Tasks.Get()); len(got) != 2 || got[0] != "TASK-001" || got[1] != "TASK-003" {
		t.Errorf("unexpected tasks of SHIP-001: %v", got)
	}
	if got := ids(shipments[1].Data.Tasks.Get()); len(got) != 1 || got[0] != "TASK-002" {
		t.Errorf("unexpected tasks of SHIP-002: %v", got)
	}

	ref := shipments[0].Data.Repo.Get()
	if ref == nil {
		t.Fatal("expected SHIP-001 to carry its repo")
	}
	if ref.ID.Get() != "REPO-001" || ref.Data.Name.Get() != "ledger" || ref.Data.DefaultBranch.Get() != "main" {
		t.Errorf("repo reference not hydrated: %+v", ref)
	}
	if shipments[1].Data.Repo.Get() != nil {
		t.Error("expected SHIP-002 to have no repo")
	}
}

func TestCommissionRepository_GetByID_NoShipments(t *testing.T) {
	db := setupTestDB(t)
	seedCommission(t, db, "COMM-001", "Empty")

	repo := sqlite.NewCommissionRepository(db, testLogger())
	c, err := repo.GetByID(context.Background(), "COMM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	shipments := c.Data.Shipments.Get()
	if shipments == nil {
		t.Fatal("expected an empty, non-nil shipment list")
	}
	if len(shipments) != 0 {
		t.Errorf("expected no shipments, got %d", len(shipments))
	}
}

func TestCommissionRepository_GetByID_ShipmentWithoutTasks(t *testing.T) {
	db := setupTestDB(t)
	seedCommission(t, db, "COMM-001", "")
	seedShipment(t, db, "SHIP-001", "COMM-001", "")

	repo := sqlite.NewCommissionRepository(db, testLogger())
	c, err := repo.GetByID(context.Background(), "COMM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	shipments := c.Data.Shipments.Get()
	if len(shipments) != 1 {
		t.Fatalf("expected 1 shipment, got %d", len(shipments))
	}
	tasks := shipments[0].Data.Tasks.Get()
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected an empty task list, got %v", tasks)
	}
}

func TestCommissionRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	createTestCommission(t, repo, ctx, "Commission 1", nil)
	createTestCommission(t, repo, ctx, "Commission 2", nil)
	createTestCommission(t, repo, ctx, "Commission 3", nil)
	seedShipment(t, db, "SHIP-001", "COMM-002", "")
	seedShipment(t, db, "SHIP-002", "COMM-002", "")

	commissions, err := repo.List(ctx, secondary.CommissionFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := ids(commissions); len(got) != 3 || got[0] != "COMM-001" || got[2] != "COMM-003" {
		t.Fatalf("unexpected commissions %v", got)
	}
	if n := len(commissions[1].Data.Shipments.Get()); n != 2 {
		t.Errorf("expected COMM-002 to have 2 shipments, got %d", n)
	}
}

func TestCommissionRepository_List_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())

	commissions, err := repo.List(context.Background(), secondary.CommissionFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if commissions == nil || len(commissions) != 0 {
		t.Errorf("expected empty non-nil list, got %v", commissions)
	}
}

func TestCommissionRepository_List_FilterAndLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	createTestCommission(t, repo, ctx, "Active 1", nil)
	createTestCommission(t, repo, ctx, "Paused", nil)
	createTestCommission(t, repo, ctx, "Active 2", nil)
	if err := repo.SetStatus(ctx, "COMM-002", "paused"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	// Shipments multiply rows; the limit must count commissions.
	seedShipment(t, db, "SHIP-001", "COMM-001", "")
	seedShipment(t, db, "SHIP-002", "COMM-001", "")

	active, err := repo.List(ctx, secondary.CommissionFilters{Status: "active"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := ids(active); len(got) != 2 || got[0] != "COMM-001" || got[1] != "COMM-003" {
		t.Errorf("unexpected active commissions %v", got)
	}

	limited, err := repo.List(ctx, secondary.CommissionFilters{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := ids(limited); len(got) != 2 || got[1] != "COMM-002" {
		t.Errorf("unexpected limited commissions %v", got)
	}
}

func TestCommissionRepository_Update_Patch(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	id := createTestCommission(t, repo, ctx, "Original", ptr("keep me"))

	type update = shape.Update
	titleOnly := models.CommissionUpdate{Data: models.CommissionData[update]{
		Title: shape.DataOf[update]("Renamed"),
	}}
	if err := repo.Update(ctx, id, titleOnly); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	c, _ := repo.GetByID(ctx, id)
	if c.Data.Title.Get() != "Renamed" {
		t.Errorf("expected title 'Renamed', got %q", c.Data.Title.Get())
	}
	if d := c.Data.Description.Get(); d == nil || *d != "keep me" {
		t.Errorf("absent description must be untouched, got %v", d)
	}
	if c.Updated.Get() == nil {
		t.Error("expected updated timestamp after update")
	}

	clearDesc := models.CommissionUpdate{Data: models.CommissionData[update]{
		Description: shape.DataNull[update, *string](),
	}}
	if err := repo.Update(ctx, id, clearDesc); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	c, _ = repo.GetByID(ctx, id)
	if c.Data.Description.Get() != nil {
		t.Errorf("expected description cleared, got %q", *c.Data.Description.Get())
	}
	if c.Data.Title.Get() != "Renamed" {
		t.Errorf("absent title must be untouched, got %q", c.Data.Title.Get())
	}
}

func TestCommissionRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())

	err := repo.Update(context.Background(), "COMM-999", models.CommissionUpdate{})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommissionRepository_StatusAndPin(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	id := createTestCommission(t, repo, ctx, "Pinned", nil)

	if err := repo.SetPinned(ctx, id, true); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}
	if err := repo.SetStatus(ctx, id, "paused"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	c, _ := repo.GetByID(ctx, id)
	if !c.Data.Pinned.Get() {
		t.Error("expected commission to be pinned")
	}
	if c.Data.Status.Get() != "paused" {
		t.Errorf("expected status 'paused', got %q", c.Data.Status.Get())
	}

	if err := repo.SetStatus(ctx, id, "bogus"); err == nil {
		t.Error("expected CHECK constraint to reject unknown status")
	}
	if err := repo.SetPinned(ctx, "COMM-999", true); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCommissionRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	seedCommission(t, db, "COMM-001", "")
	seedShipment(t, db, "SHIP-001", "COMM-001", "")
	seedTask(t, db, "TASK-001", "SHIP-001", "")

	if err := repo.Delete(ctx, "COMM-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := repo.Exists(ctx, "COMM-001")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected commission to be deleted")
	}

	var tasks int
	db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&tasks)
	if tasks != 0 {
		t.Errorf("expected tasks to cascade, %d remain", tasks)
	}

	if err := repo.Delete(ctx, "COMM-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCommissionRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "COMM-001" {
		t.Errorf("expected COMM-001, got %s", id)
	}

	seedCommission(t, db, "COMM-009", "")

	id, _ = repo.GetNextID(ctx)
	if id != "COMM-010" {
		t.Errorf("expected COMM-010, got %s", id)
	}
}

func TestCommissionRepository_CountShipments(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCommissionRepository(db, testLogger())

	seedCommission(t, db, "COMM-001", "")
	seedShipment(t, db, "SHIP-001", "COMM-001", "")
	seedShipment(t, db, "SHIP-002", "COMM-001", "")

	count, err := repo.CountShipments(context.Background(), "COMM-001")
	if err != nil {
		t.Fatalf("CountShipments failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 shipments, got %d", count)
	}
}
