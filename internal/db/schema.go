package db

import (
	"database/sql"
	"fmt"
)

// tablesSQL creates the ledger's tables. Parents sort before children in
// every nested read, so ids are the primary ordering key.
const tablesSQL = `
-- Repos (Repository configurations)
CREATE TABLE IF NOT EXISTS repos (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	url TEXT,
	default_branch TEXT NOT NULL DEFAULT 'main',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME
);

-- Commissions (top-level work streams)
CREATE TABLE IF NOT EXISTS commissions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'paused', 'complete', 'archived')) DEFAULT 'active',
	pinned INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME
);

-- Shipments (deliverables within a commission)
CREATE TABLE IF NOT EXISTS shipments (
	id TEXT PRIMARY KEY,
	commission_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('draft', 'in_progress', 'paused', 'complete')) DEFAULT 'draft',
	branch TEXT,
	repo_id TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME,
	FOREIGN KEY (commission_id) REFERENCES commissions(id) ON DELETE CASCADE,
	FOREIGN KEY (repo_id) REFERENCES repos(id)
);

-- Tasks (units of work within a shipment)
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	shipment_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('ready', 'in_progress', 'blocked', 'complete')) DEFAULT 'ready',
	priority INTEGER,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME,
	FOREIGN KEY (shipment_id) REFERENCES shipments(id) ON DELETE CASCADE
);
`

const indexesSQL = `
CREATE INDEX IF NOT EXISTS idx_commissions_status ON commissions(status);
CREATE INDEX IF NOT EXISTS idx_shipments_commission ON shipments(commission_id);
CREATE INDEX IF NOT EXISTS idx_shipments_repo ON shipments(repo_id);
CREATE INDEX IF NOT EXISTS idx_tasks_shipment ON tasks(shipment_id);
`

const activityLogSQL = `
-- Activity log (one row per create, field update or delete)
CREATE TABLE IF NOT EXISTS activity_log (
	id TEXT PRIMARY KEY,
	entity_type TEXT NOT NULL CHECK(entity_type IN ('commission', 'shipment', 'task', 'repo')),
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activity_log_entity ON activity_log(entity_type, entity_id);
`

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after all migrations and is the only schema tests may use.
const SchemaSQL = tablesSQL + indexesSQL + activityLogSQL

// InitSchema brings database up to date. A fresh database gets SchemaSQL
// directly and every migration is recorded as applied; an existing one runs
// whatever migrations it is missing.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
