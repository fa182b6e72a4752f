package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with development fixtures. The data
// covers every nesting case: a commission with no shipments, a shipment with
// no tasks, a shipment linked to a repo and one that is not.
func SeedFixtures(database *sql.DB) error {
	repos := []struct{ id, name, url string }{
		{"REPO-001", "ledger", "git@example.com:ledger.git"},
		{"REPO-002", "docs", ""},
	}
	for _, r := range repos {
		if _, err := database.Exec(
			"INSERT INTO repos (id, name, url) VALUES (?, ?, ?)",
			r.id, r.name, nullIfEmpty(r.url),
		); err != nil {
			return fmt.Errorf("seed repos: %w", err)
		}
	}

	commissions := []struct{ id, title, desc, status string }{
		{"COMM-001", "Storage rewrite", "Move every entity onto the nested read path", "active"},
		{"COMM-002", "Documentation", "", "paused"},
	}
	for _, c := range commissions {
		if _, err := database.Exec(
			"INSERT INTO commissions (id, title, description, status) VALUES (?, ?, ?, ?)",
			c.id, c.title, nullIfEmpty(c.desc), c.status,
		); err != nil {
			return fmt.Errorf("seed commissions: %w", err)
		}
	}

	shipments := []struct{ id, commissionID, title, status, branch, repoID string }{
		{"SHIP-001", "COMM-001", "Row collector", "in_progress", "feat/row-collector", "REPO-001"},
		{"SHIP-002", "COMM-001", "Patch updates", "draft", "", ""},
	}
	for _, s := range shipments {
		if _, err := database.Exec(
			"INSERT INTO shipments (id, commission_id, title, status, branch, repo_id) VALUES (?, ?, ?, ?, ?, ?)",
			s.id, s.commissionID, s.title, s.status, nullIfEmpty(s.branch), nullIfEmpty(s.repoID),
		); err != nil {
			return fmt.Errorf("seed shipments: %w", err)
		}
	}

	tasks := []struct {
		id, shipmentID, title, status string
		priority                      any
	}{
		{"TASK-001", "SHIP-001", "Group rows by parent id", "complete", 1},
		{"TASK-002", "SHIP-001", "Skip NULL children", "in_progress", 2},
		{"TASK-003", "SHIP-001", "Release cursor on early exit", "ready", nil},
	}
	for _, t := range tasks {
		if _, err := database.Exec(
			"INSERT INTO tasks (id, shipment_id, title, status, priority) VALUES (?, ?, ?, ?, ?)",
			t.id, t.shipmentID, t.title, t.status, t.priority,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
