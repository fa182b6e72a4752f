package collect

import "github.com/example/ledger/internal/grouping"

// AllSlice is the in-memory counterpart of All.
func AllSlice[K comparable, R, O any](rows []R, key func(R) K, build func(K, *grouping.Run[K, R]) O) []O {
	out := []O{}
	for k, run := range grouping.By(grouping.FromSlice(rows), key).All() {
		out = append(out, build(k, run))
	}
	return out
}

// OneSlice is the in-memory counterpart of One.
func OneSlice[K comparable, R, O any](rows []R, key func(R) K, build func(K, *grouping.Run[K, R]) O) (O, error) {
	var zero O
	g := grouping.By(grouping.FromSlice(rows), key)

	run, ok := g.Next()
	if !ok {
		return zero, ErrNotFound
	}
	v := build(run.Key(), run)
	if _, more := g.Next(); more {
		return zero, ErrTooMany
	}
	return v, nil
}
