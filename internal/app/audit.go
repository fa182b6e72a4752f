package app

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/example/ledger/internal/ports/secondary"
)

// auditor records mutations in the activity log. A failed write is logged
// and never fails the mutation that caused it.
type auditor struct {
	entityType string
	writer     secondary.LogWriter
	logger     *zap.Logger
}

func newAuditor(entityType string, writer secondary.LogWriter, logger *zap.Logger) auditor {
	return auditor{entityType: entityType, writer: writer, logger: logger}
}

func (a auditor) created(ctx context.Context, id string) {
	if a.writer == nil {
		return
	}
	a.check(id, a.writer.LogCreate(ctx, a.entityType, id))
}

// updated writes one entry per touched field, in patch order.
func (a auditor) updated(ctx context.Context, id string, t *touched) {
	for _, field := range t.set {
		a.changed(ctx, id, field, "", t.values[field])
	}
}

func (a auditor) changed(ctx context.Context, id, field, oldValue, newValue string) {
	if a.writer == nil {
		return
	}
	a.check(id, a.writer.LogUpdate(ctx, a.entityType, id, field, oldValue, newValue))
}

func (a auditor) toggled(ctx context.Context, id, field string, oldValue, newValue bool) {
	a.changed(ctx, id, field, strconv.FormatBool(oldValue), strconv.FormatBool(newValue))
}

func (a auditor) deleted(ctx context.Context, id string) {
	if a.writer == nil {
		return
	}
	a.check(id, a.writer.LogDelete(ctx, a.entityType, id))
}

func (a auditor) check(id string, err error) {
	if err != nil {
		a.logger.Warn("failed to write activity log",
			zap.String("entity_type", a.entityType),
			zap.String("entity_id", id),
			zap.Error(err),
		)
	}
}
