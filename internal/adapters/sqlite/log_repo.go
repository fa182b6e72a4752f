package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/ports/secondary"
)

const logColumns = "id, entity_type, entity_id, action, field_name, old_value, new_value, created_at"

// LogRepository implements secondary.LogRepository with SQLite.
type LogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLogRepository creates a new SQLite activity log repository.
func NewLogRepository(db *sql.DB, logger *zap.Logger) *LogRepository {
	return &LogRepository{db: db, logger: logger}
}

// Create persists a new log entry. Empty field, old and new values are
// stored as NULL.
func (r *LogRepository) Create(ctx context.Context, log *secondary.LogRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_log (id, entity_type, entity_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?)",
		log.ID,
		log.EntityType,
		log.EntityID,
		log.Action,
		nullString(log.FieldName),
		nullString(log.OldValue),
		nullString(log.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	return nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *LogRepository) List(ctx context.Context, filters secondary.LogFilters) ([]*secondary.LogRecord, error) {
	query := "SELECT " + logColumns + " FROM activity_log WHERE 1=1"
	args := []any{}

	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY created_at DESC, CAST(SUBSTR(id, 5) AS INTEGER) DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	r.logger.Debug("listing activity log", zap.String("sql", query))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	logs := []*secondary.LogRecord{}
	for rows.Next() {
		var (
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)

		record := &secondary.LogRecord{}
		err := rows.Scan(&record.ID,
			&record.EntityType,
			&record.EntityID,
			&record.Action,
			&fieldName,
			&oldValue,
			&newValue,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		logs = append(logs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	return logs, nil
}

// GetNextID returns the next available log ID.
func (r *LogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM activity_log",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next log ID: %w", err)
	}

	return fmt.Sprintf("LOG-%04d", maxID+1), nil
}

// PruneOlderThan deletes log entries older than the given number of days.
// A negative age is rejected: SQLite would turn the modifier into NULL and
// silently match nothing.
func (r *LogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	if days < 0 {
		return 0, fmt.Errorf("prune age must not be negative, got %d days", days)
	}
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM activity_log WHERE created_at < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune log entries: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure LogRepository implements the interface
var _ secondary.LogRepository = (*LogRepository)(nil)
