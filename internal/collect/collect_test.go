package collect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/grouping"
)

type row struct {
	Parent string
	Child  *string
	Item   *int
}

type child struct {
	ID    string
	Items []int
}

type parent struct {
	ID       string
	Children []child
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

type rowCursor struct {
	rows   []row
	pos    int
	err    error
	errAt  int
	closes int
	cerr   error
}

func cursor(rows ...row) *rowCursor { return &rowCursor{rows: rows, errAt: -1} }

func (c *rowCursor) Next(context.Context) (row, bool, error) {
	if c.errAt >= 0 && c.pos == c.errAt {
		return row{}, false, c.err
	}
	if c.pos >= len(c.rows) {
		return row{}, false, nil
	}
	r := c.rows[c.pos]
	c.pos++
	return r, true, nil
}

func (c *rowCursor) Close() error {
	c.closes++
	return c.cerr
}

func parentKey(r row) string { return r.Parent }

func childKey(r row) (string, bool) {
	if r.Child == nil {
		return "", false
	}
	return *r.Child, true
}

func itemKey(r row) (int, bool) {
	if r.Item == nil {
		return 0, false
	}
	return *r.Item, true
}

func buildItem(_ context.Context, id int, rows grouping.Stream[row]) (int, error) {
	return id, nil
}

func buildChild(ctx context.Context, id string, rows grouping.Stream[row]) (child, error) {
	items, err := collect.Children(ctx, rows, itemKey, buildItem)
	if err != nil {
		return child{}, err
	}
	return child{ID: id, Items: items}, nil
}

func buildParent(ctx context.Context, id string, rows grouping.Stream[row]) (parent, error) {
	children, err := collect.Children(ctx, rows, childKey, buildChild)
	if err != nil {
		return parent{}, err
	}
	return parent{ID: id, Children: children}, nil
}

func fetchAll(ctx context.Context, cur grouping.Cursor[row]) ([]parent, error) {
	return collect.Using(cur, func(src grouping.Stream[row]) ([]parent, error) {
		return collect.All(ctx, src, parentKey, buildParent)
	})
}

func fetchOne(ctx context.Context, cur grouping.Cursor[row]) (parent, error) {
	return collect.Using(cur, func(src grouping.Stream[row]) (parent, error) {
		return collect.One(ctx, src, parentKey, buildParent)
	})
}

func TestAll_RebuildsThreeLevels(t *testing.T) {
	cur := cursor(
		row{"A", str("A1"), num(1)},
		row{"A", str("A1"), num(2)},
		row{"A", str("A2"), nil},
		row{"B", nil, nil},
		row{"C", str("C1"), num(3)},
	)

	got, err := fetchAll(context.Background(), cur)
	require.NoError(t, err)

	want := []parent{
		{ID: "A", Children: []child{{ID: "A1", Items: []int{1, 2}}, {ID: "A2", Items: []int{}}}},
		{ID: "B", Children: []child{}},
		{ID: "C", Children: []child{{ID: "C1", Items: []int{3}}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collected mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, cur.closes)
}

func TestAll_EmptySource(t *testing.T) {
	cur := cursor()

	got, err := fetchAll(context.Background(), cur)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, cur.closes)
}

func TestOne(t *testing.T) {
	tests := []struct {
		name    string
		rows    []row
		wantErr error
		wantID  string
	}{
		{name: "no rows", rows: nil, wantErr: collect.ErrNotFound},
		{name: "single parent", rows: []row{{"A", str("A1"), nil}, {"A", str("A2"), nil}}, wantID: "A"},
		{name: "two parents", rows: []row{{"A", nil, nil}, {"B", nil, nil}}, wantErr: collect.ErrTooMany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := cursor(tt.rows...)
			got, err := fetchOne(context.Background(), cur)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
			}
			assert.Equal(t, 1, cur.closes)
		})
	}
}

func TestOne_OuterJoinWithoutChildren(t *testing.T) {
	got, err := fetchOne(context.Background(), cursor(row{"A", nil, nil}))
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)
	assert.NotNil(t, got.Children)
	assert.Len(t, got.Children, 0)
}

func TestUsing_UpstreamErrorReturnedUnchangedAndCursorReleased(t *testing.T) {
	boom := errors.New("disk I/O error")
	cur := cursor(row{"A", str("A1"), num(1)}, row{"A", str("A1"), num(2)})
	cur.err, cur.errAt = boom, 1

	_, err := fetchAll(context.Background(), cur)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cur.closes)
}

func TestUsing_ReleaseErrorReported(t *testing.T) {
	release := errors.New("close failed")
	cur := cursor(row{"A", nil, nil})
	cur.cerr = release

	_, err := fetchAll(context.Background(), cur)
	assert.ErrorIs(t, err, release)
	assert.Equal(t, 1, cur.closes)
}

func TestUsing_BuilderErrorWinsOverReleaseError(t *testing.T) {
	buildErr := errors.New("bad row")
	cur := cursor(row{"A", nil, nil})
	cur.cerr = errors.New("close failed")

	_, err := collect.Using(cur, func(src grouping.Stream[row]) (int, error) {
		return 0, buildErr
	})
	assert.ErrorIs(t, err, buildErr)
	assert.Equal(t, 1, cur.closes)
}

func TestUsing_EarlyAbandonStillReleases(t *testing.T) {
	cur := cursor(row{"A", nil, nil}, row{"B", nil, nil}, row{"C", nil, nil})

	first, err := collect.Using(cur, func(src grouping.Stream[row]) (string, error) {
		r, _, err := src.Next(context.Background())
		return r.Parent, err
	})
	require.NoError(t, err)
	assert.Equal(t, "A", first)
	assert.Equal(t, 1, cur.closes)
	assert.Equal(t, 1, cur.pos)
}

func TestAllSlice(t *testing.T) {
	rows := []int{1, 1, 2, 3, 3, 3, 4, 4}

	sums := collect.AllSlice(rows, func(v int) int { return v }, func(_ int, run *grouping.Run[int, int]) int {
		total := 0
		for v := range run.All() {
			total += v
		}
		return total
	})
	assert.Equal(t, []int{2, 2, 9, 8}, sums)
}

func TestOneSlice(t *testing.T) {
	count := func(_ string, run *grouping.Run[string, string]) int { return run.Drain() }
	id := func(s string) string { return s }

	_, err := collect.OneSlice([]string{}, id, count)
	assert.ErrorIs(t, err, collect.ErrNotFound)

	n, err := collect.OneSlice([]string{"a", "a"}, id, count)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = collect.OneSlice([]string{"a", "b"}, id, count)
	assert.ErrorIs(t, err, collect.ErrTooMany)
}
