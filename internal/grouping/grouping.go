// Package grouping partitions an ordered sequence into runs of consecutive
// elements that share a key.
//
// The input must already be ordered so that equal keys are contiguous; a key
// that reappears after a different one starts a new run. Runs are lazy: a run
// borrows its parent's position, so only one run per parent is live at a
// time. Asking the parent for the next run skips whatever the live run left
// unread, and a run used after its parent moved on panics.
//
// Because a Run is itself a Peeker, runs can be grouped again to rebuild
// nested structures:
//
//	for _, parent := range grouping.By(rows, parentID).All() {
//		for _, child := range grouping.By(parent, childID).All() {
//			...
//		}
//	}
package grouping

import (
	"errors"
	"iter"
)

// ErrContractViolation is matched by the errors this package panics with when
// a run is used after its parent advanced.
var ErrContractViolation = errors.New("grouping: contract violation")

type violation struct{ msg string }

func (v *violation) Error() string        { return "grouping: " + v.msg }
func (v *violation) Is(target error) bool { return target == ErrContractViolation }

// Peeker is a pull-based source with one element of lookahead.
type Peeker[T any] interface {
	// Peek returns the next element without consuming it.
	Peek() (T, bool)
	// Next consumes and returns the next element.
	Next() (T, bool)
}

// Grouper yields the runs of its source.
type Grouper[K, T any] struct {
	src  Peeker[T]
	key  func(T) K
	eq   func(a, b K) bool
	live *Run[K, T]
}

// By groups src by key, comparing keys with ==.
func By[K comparable, T any](src Peeker[T], key func(T) K) *Grouper[K, T] {
	return ByFunc(src, key, func(a, b K) bool { return a == b })
}

// ByFunc groups src by key, comparing keys with eq.
func ByFunc[K, T any](src Peeker[T], key func(T) K, eq func(a, b K) bool) *Grouper[K, T] {
	return &Grouper[K, T]{src: src, key: key, eq: eq}
}

// Next returns the next run. The previous run, if any, is drained and
// detached first. It returns false once the source is exhausted; an empty
// source yields no run at all.
func (g *Grouper[K, T]) Next() (*Run[K, T], bool) {
	if g.live != nil {
		g.live.Drain()
		g.live.detached = true
		g.live = nil
	}

	head, ok := g.src.Peek()
	if !ok {
		return nil, false
	}
	g.live = &Run[K, T]{g: g, key: g.key(head)}
	return g.live, true
}

// All returns the runs as a sequence of (key, run) pairs.
func (g *Grouper[K, T]) All() iter.Seq2[K, *Run[K, T]] {
	return func(yield func(K, *Run[K, T]) bool) {
		for {
			r, ok := g.Next()
			if !ok || !yield(r.key, r) {
				return
			}
		}
	}
}

// Map returns the lazy sequence of fn applied to every run of g.
func Map[K, T, O any](g *Grouper[K, T], fn func(K, *Run[K, T]) O) iter.Seq[O] {
	return func(yield func(O) bool) {
		for k, r := range g.All() {
			if !yield(fn(k, r)) {
				return
			}
		}
	}
}

// Run is a maximal stretch of consecutive elements sharing one key. It reads
// through its parent's source and is only valid until the parent's next call
// to Next.
type Run[K, T any] struct {
	g        *Grouper[K, T]
	key      K
	started  bool
	done     bool
	detached bool
}

// Key returns the key shared by every element of the run. It is known before
// the first element is pulled: a run only exists once its head was seen.
func (r *Run[K, T]) Key() K {
	return r.key
}

// Peek returns the next element of the run without consuming it.
func (r *Run[K, T]) Peek() (T, bool) {
	r.mustBeLive("Peek")
	var zero T
	if r.done {
		return zero, false
	}
	v, ok := r.g.src.Peek()
	if !ok || (r.started && !r.g.eq(r.g.key(v), r.key)) {
		return zero, false
	}
	return v, true
}

// Next consumes and returns the next element of the run.
func (r *Run[K, T]) Next() (T, bool) {
	r.mustBeLive("Next")
	v, ok := r.Peek()
	if !ok {
		r.done = true
		return v, false
	}
	r.started = true
	r.g.src.Next()
	return v, true
}

// All returns the remaining elements of the run.
func (r *Run[K, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := r.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Drain consumes the rest of the run and reports how many elements it skipped.
func (r *Run[K, T]) Drain() int {
	n := 0
	for {
		if _, ok := r.Next(); !ok {
			return n
		}
		n++
	}
}

func (r *Run[K, T]) mustBeLive(op string) {
	if r.detached {
		panic(&violation{msg: op + " on a run whose parent has moved to a later run"})
	}
}
