// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/example/ledger/internal/db"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/shape"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to :memory: is its own database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func testLogger() *zap.Logger { return zap.NewNop() }

// seedCommission inserts a test commission and returns its ID.
func seedCommission(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()
	if id == "" {
		id = "COMM-001"
	}
	if title == "" {
		title = "Test Commission"
	}
	_, err := db.Exec("INSERT INTO commissions (id, title, status) VALUES (?, ?, 'active')", id, title)
	if err != nil {
		t.Fatalf("failed to seed commission: %v", err)
	}
	return id
}

// seedShipment inserts a test shipment and returns its ID.
func seedShipment(t *testing.T, db *sql.DB, id, commissionID, title string) string {
	t.Helper()
	if id == "" {
		id = "SHIP-001"
	}
	if commissionID == "" {
		commissionID = "COMM-001"
	}
	if title == "" {
		title = "Test Shipment"
	}
	_, err := db.Exec("INSERT INTO shipments (id, commission_id, title, status) VALUES (?, ?, ?, 'draft')", id, commissionID, title)
	if err != nil {
		t.Fatalf("failed to seed shipment: %v", err)
	}
	return id
}

// seedTask inserts a test task and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, shipmentID, title string) string {
	t.Helper()
	if id == "" {
		id = "TASK-001"
	}
	if shipmentID == "" {
		shipmentID = "SHIP-001"
	}
	if title == "" {
		title = "Test Task"
	}
	_, err := db.Exec("INSERT INTO tasks (id, shipment_id, title, status) VALUES (?, ?, ?, 'ready')", id, shipmentID, title)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedRepo inserts a test repository and returns its ID.
func seedRepo(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "REPO-001"
	}
	if name == "" {
		name = "test-repo"
	}
	_, err := db.Exec("INSERT INTO repos (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed repo: %v", err)
	}
	return id
}

// linkRepo points a shipment at a repository.
func linkRepo(t *testing.T, db *sql.DB, shipmentID, repoID string) {
	t.Helper()
	if _, err := db.Exec("UPDATE shipments SET repo_id = ? WHERE id = ?", repoID, shipmentID); err != nil {
		t.Fatalf("failed to link repo: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func ids[S shape.Shape, D any](records []shape.Record[S, D]) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID.Get()
	}
	return out
}

type create = shape.Create

func newCommission(title string, description *string) models.CommissionCreate {
	return models.CommissionCreate{Data: models.CommissionData[create]{
		Title:       shape.DataOf[create](title),
		Description: shape.DataOf[create](description),
	}}
}
