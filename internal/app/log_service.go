package app

import (
	"context"
	"fmt"

	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.LogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.LogRepository) *LogServiceImpl {
	return &LogServiceImpl{logRepo: logRepo}
}

// ListLogs retrieves log entries matching the given filters.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	if filters.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", filters.Limit)
	}

	records, err := s.logRepo.List(ctx, secondary.LogFilters{
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		Action:     filters.Action,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

// PruneLogs deletes log entries older than the specified number of days.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("--older-than must be at least 1 day, got %d", olderThanDays)
	}
	return s.logRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToLogEntry(r *secondary.LogRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		CreatedAt:  r.CreatedAt,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
