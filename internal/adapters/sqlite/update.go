package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ledger/internal/shape"
)

// updateQuery builds an UPDATE from patches. Absent patches leave their
// column untouched, Null patches write NULL and values write the value.
type updateQuery struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateQuery {
	return &updateQuery{table: table, sets: []string{"updated_at = CURRENT_TIMESTAMP"}}
}

func (u *updateQuery) set(col string, v any) {
	u.sets = append(u.sets, col+" = ?")
	u.args = append(u.args, v)
}

func setPatch[T any](u *updateQuery, col string, p shape.Patch[T]) {
	setPatchFunc(u, col, p, func(v T) any { return v })
}

func setPatchFunc[T any](u *updateQuery, col string, p shape.Patch[T], conv func(T) any) {
	if v, ok := p.Get(); ok {
		u.set(col, conv(v))
		return
	}
	if p.IsNull() {
		u.sets = append(u.sets, col+" = NULL")
	}
}

// exec runs the update against the row with id and reports whether it existed.
func (u *updateQuery) exec(ctx context.Context, db *sql.DB, id string) (bool, error) {
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", u.table, strings.Join(u.sets, ", "))
	result, err := db.ExecContext(ctx, q, append(u.args, id)...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// nextNumber returns the highest numeric suffix of the ids in table, where
// ids look like PREFIX-NNN.
func nextNumber(ctx context.Context, db *sql.DB, table, prefix string) (int, error) {
	var maxID int
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s", len(prefix)+2, table),
	).Scan(&maxID)
	return maxID, err
}
