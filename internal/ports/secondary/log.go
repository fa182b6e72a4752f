package secondary

import "context"

// LogWriter defines the interface for writing activity log entries.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// LogRecord is one row of the activity log.
type LogRecord struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string // create, update, delete
	FieldName  string // updates only
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// LogFilters narrows a log listing. Zero values match everything.
type LogFilters struct {
	EntityType string
	EntityID   string
	Action     string
	Limit      int
}

// LogRepository stores activity log entries.
type LogRepository interface {
	Create(ctx context.Context, record *LogRecord) error
	List(ctx context.Context, filters LogFilters) ([]*LogRecord, error)
	GetNextID(ctx context.Context) (string, error)
	// PruneOlderThan deletes entries older than days and returns how many went.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}
