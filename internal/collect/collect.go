// Package collect turns ordered, possibly denormalized rows into nested values
// using the grouping combinator. Rows must arrive ordered by every identity the
// builders group on, outermost first.
package collect

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/ledger/internal/grouping"
)

var (
	// ErrNotFound is returned by One when the source yields no group.
	ErrNotFound = errors.New("not found")
	// ErrTooMany is returned by One when the source yields a second group.
	ErrTooMany = errors.New("more than one result")
)

// Builder assembles one value from the rows of a single group. rows yields
// only that group's rows; the builder may stop reading early.
type Builder[K, R, O any] func(ctx context.Context, key K, rows grouping.Stream[R]) (O, error)

// Using wraps cur in a lookahead, hands it to fn and releases the cursor
// exactly once on every exit path. A release error is reported only when fn
// itself succeeded.
func Using[R, O any](cur grouping.Cursor[R], fn func(grouping.Stream[R]) (O, error)) (out O, err error) {
	src := grouping.NewLookahead(cur)
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to release rows: %w", cerr)
		}
	}()
	return fn(src)
}

// All builds one value per group, in source order.
func All[K comparable, R, O any](ctx context.Context, src grouping.Stream[R], key func(R) K, build Builder[K, R, O]) ([]O, error) {
	out := []O{}
	g := grouping.StreamBy(src, key)
	for {
		run, ok, err := g.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		v, err := build(ctx, run.Key(), run)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// One builds the single group of src. It fails with ErrNotFound when there is
// no group and ErrTooMany when a second group follows the first.
func One[K comparable, R, O any](ctx context.Context, src grouping.Stream[R], key func(R) K, build Builder[K, R, O]) (O, error) {
	var zero O
	g := grouping.StreamBy(src, key)

	run, ok, err := g.Next(ctx)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrNotFound
	}
	v, err := build(ctx, run.Key(), run)
	if err != nil {
		return zero, err
	}

	_, more, err := g.Next(ctx)
	if err != nil {
		return zero, err
	}
	if more {
		return zero, ErrTooMany
	}
	return v, nil
}

type nullable[K any] struct {
	key   K
	valid bool
}

// Children groups the rows of one parent by a child identity that may be
// NULL. Rows whose identity is NULL come from an outer join that matched no
// child and produce nothing, so a childless parent yields an empty, non-nil
// slice.
func Children[K comparable, R, O any](ctx context.Context, rows grouping.Stream[R], key func(R) (K, bool), build Builder[K, R, O]) ([]O, error) {
	out := []O{}
	g := grouping.StreamBy(rows, func(r R) nullable[K] {
		k, ok := key(r)
		return nullable[K]{key: k, valid: ok}
	})
	for {
		run, ok, err := g.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		if !run.Key().valid {
			continue
		}
		v, err := build(ctx, run.Key().key, run)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
