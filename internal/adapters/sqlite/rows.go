package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/shape"
)

// rowCursor adapts *sql.Rows to grouping.Cursor, scanning each row with scan.
type rowCursor[R any] struct {
	rows *sql.Rows
	scan func(*sql.Rows) (R, error)
}

func (c *rowCursor[R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return zero, false, fmt.Errorf("failed to read rows: %w", err)
		}
		return zero, false, nil
	}
	r, err := c.scan(c.rows)
	if err != nil {
		return zero, false, fmt.Errorf("failed to scan row: %w", err)
	}
	return r, true, nil
}

func (c *rowCursor[R]) Close() error {
	return c.rows.Close()
}

// query runs q and hands its rows to fn. The rows are closed exactly once,
// however far fn reads.
func query[R, O any](ctx context.Context, db *sql.DB, scan func(*sql.Rows) (R, error), fn func(grouping.Stream[R]) (O, error), q string, args ...any) (O, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		var zero O
		return zero, err
	}
	return collect.Using[R, O](&rowCursor[R]{rows: rows, scan: scan}, fn)
}

// Column groups of the denormalized nested reads. Every joined entity is
// scanned into nullable columns: a LEFT JOIN that matched nothing leaves the
// whole group NULL.

type commissionCols struct {
	id          string
	title       string
	description sql.NullString
	status      string
	pinned      bool
	createdAt   time.Time
	updatedAt   sql.NullTime
}

const commissionColumns = "c.id, c.title, c.description, c.status, c.pinned, c.created_at, c.updated_at"

func (c *commissionCols) targets() []any {
	return []any{&c.id, &c.title, &c.description, &c.status, &c.pinned, &c.createdAt, &c.updatedAt}
}

type shipmentCols struct {
	id           sql.NullString
	commissionID sql.NullString
	title        sql.NullString
	description  sql.NullString
	status       sql.NullString
	branch       sql.NullString
	createdAt    sql.NullTime
	updatedAt    sql.NullTime
}

const shipmentColumns = "s.id, s.commission_id, s.title, s.description, s.status, s.branch, s.created_at, s.updated_at"

func (s *shipmentCols) targets() []any {
	return []any{&s.id, &s.commissionID, &s.title, &s.description, &s.status, &s.branch, &s.createdAt, &s.updatedAt}
}

type repoCols struct {
	id            sql.NullString
	name          sql.NullString
	url           sql.NullString
	defaultBranch sql.NullString
	createdAt     sql.NullTime
	updatedAt     sql.NullTime
}

const repoColumns = "r.id, r.name, r.url, r.default_branch, r.created_at, r.updated_at"

func (r *repoCols) targets() []any {
	return []any{&r.id, &r.name, &r.url, &r.defaultBranch, &r.createdAt, &r.updatedAt}
}

type taskCols struct {
	id          sql.NullString
	shipmentID  sql.NullString
	title       sql.NullString
	description sql.NullString
	status      sql.NullString
	priority    sql.NullInt64
	createdAt   sql.NullTime
	updatedAt   sql.NullTime
}

const taskColumns = "t.id, t.shipment_id, t.title, t.description, t.status, t.priority, t.created_at, t.updated_at"

func (t *taskCols) targets() []any {
	return []any{&t.id, &t.shipmentID, &t.title, &t.description, &t.status, &t.priority, &t.createdAt, &t.updatedAt}
}

// joinedRow is one row of a nested read. Which groups are populated depends
// on the query that produced it.
type joinedRow struct {
	c commissionCols
	s shipmentCols
	r repoCols
	t taskCols
}

func scanCommissionRow(rows *sql.Rows) (joinedRow, error) {
	var j joinedRow
	dest := append(j.c.targets(), j.s.targets()...)
	dest = append(dest, j.r.targets()...)
	dest = append(dest, j.t.targets()...)
	err := rows.Scan(dest...)
	return j, err
}

func scanShipmentRow(rows *sql.Rows) (joinedRow, error) {
	var j joinedRow
	dest := append(j.s.targets(), j.r.targets()...)
	dest = append(dest, j.t.targets()...)
	err := rows.Scan(dest...)
	return j, err
}

func scanTaskRow(rows *sql.Rows) (joinedRow, error) {
	var j joinedRow
	err := rows.Scan(j.t.targets()...)
	return j, err
}

func scanRepoRow(rows *sql.Rows) (joinedRow, error) {
	var j joinedRow
	err := rows.Scan(j.r.targets()...)
	return j, err
}

func commissionKey(j joinedRow) string { return j.c.id }

// Nullable child keys, for groups reached through a LEFT JOIN.

func shipmentKey(j joinedRow) (string, bool) { return j.s.id.String, j.s.id.Valid }
func taskKey(j joinedRow) (string, bool)     { return j.t.id.String, j.t.id.Valid }

// Top-level keys, for queries whose FROM table is the entity itself.

func shipmentID(j joinedRow) string { return j.s.id.String }
func taskID(j joinedRow) string     { return j.t.id.String }
func repoID(j joinedRow) string     { return j.r.id.String }

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// view is the shape every read returns.
type view = shape.Query

func buildCommission(ctx context.Context, id string, rows grouping.Stream[joinedRow]) (models.Commission, error) {
	head, _, err := rows.Peek(ctx)
	if err != nil {
		return models.Commission{}, err
	}

	shipments, err := collect.Children(ctx, rows, shipmentKey, buildShipment)
	if err != nil {
		return models.Commission{}, err
	}

	return models.Commission{
		ID:      shape.KeyOf[view](id),
		Created: shape.MetaOf[view](head.c.createdAt),
		Updated: shape.MetaOf[view](timePtr(head.c.updatedAt)),
		Data: models.CommissionData[view]{
			Title:       shape.DataOf[view](head.c.title),
			Description: shape.DataOf[view](strPtr(head.c.description)),
			Status:      shape.MetaOf[view](head.c.status),
			Pinned:      shape.MetaOf[view](head.c.pinned),
			Shipments:   shape.MetaOf[view](shipments),
		},
	}, nil
}

func buildShipment(ctx context.Context, id string, rows grouping.Stream[joinedRow]) (models.Shipment, error) {
	head, _, err := rows.Peek(ctx)
	if err != nil {
		return models.Shipment{}, err
	}

	tasks, err := collect.Children(ctx, rows, taskKey, buildTask)
	if err != nil {
		return models.Shipment{}, err
	}

	return models.Shipment{
		ID:      shape.KeyOf[view](id),
		Created: shape.MetaOf[view](head.s.createdAt.Time),
		Updated: shape.MetaOf[view](timePtr(head.s.updatedAt)),
		Data: models.ShipmentData[view]{
			CommissionID: shape.DataOf[view](head.s.commissionID.String),
			Title:        shape.DataOf[view](head.s.title.String),
			Description:  shape.DataOf[view](strPtr(head.s.description)),
			Status:       shape.MetaOf[view](head.s.status.String),
			Branch:       shape.DataOf[view](strPtr(head.s.branch)),
			Repo:         shape.DataOf[view](repoRef(head.r)),
			Tasks:        shape.MetaOf[view](tasks),
		},
	}, nil
}

func buildTask(ctx context.Context, id string, rows grouping.Stream[joinedRow]) (models.Task, error) {
	head, _, err := rows.Peek(ctx)
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		ID:      shape.KeyOf[view](id),
		Created: shape.MetaOf[view](head.t.createdAt.Time),
		Updated: shape.MetaOf[view](timePtr(head.t.updatedAt)),
		Data: models.TaskData[view]{
			ShipmentID:  shape.DataOf[view](head.t.shipmentID.String),
			Title:       shape.DataOf[view](head.t.title.String),
			Description: shape.DataOf[view](strPtr(head.t.description)),
			Priority:    shape.DataOf[view](intPtr(head.t.priority)),
			Status:      shape.MetaOf[view](head.t.status.String),
		},
	}, nil
}

func buildRepo(ctx context.Context, id string, rows grouping.Stream[joinedRow]) (models.Repo, error) {
	head, _, err := rows.Peek(ctx)
	if err != nil {
		return models.Repo{}, err
	}

	return models.Repo{
		ID:      shape.KeyOf[view](id),
		Created: shape.MetaOf[view](head.r.createdAt.Time),
		Updated: shape.MetaOf[view](timePtr(head.r.updatedAt)),
		Data: models.RepoData[view]{
			Name:          shape.DataOf[view](head.r.name.String),
			URL:           shape.DataOf[view](strPtr(head.r.url)),
			DefaultBranch: shape.DataOf[view](head.r.defaultBranch.String),
		},
	}, nil
}

// repoRef hydrates a reference from the joined repo columns, or returns nil
// when the shipment links no repo.
func repoRef(r repoCols) *models.RepoRef {
	if !r.id.Valid {
		return nil
	}
	type ref = shape.Reference
	out := shape.Ref[models.RepoData[ref]](r.id.String)
	out.Created = shape.MetaOf[ref](r.createdAt.Time)
	out.Data = models.RepoData[ref]{
		Name:          shape.DataOf[ref](r.name.String),
		DefaultBranch: shape.DataOf[ref](r.defaultBranch.String),
	}
	if r.url.Valid {
		out.Data.URL = shape.DataOf[ref](&r.url.String)
	}
	return &out
}
