package grouping

import (
	"context"
	"errors"
)

// ErrClosed is returned when a Lookahead is pulled after Close.
var ErrClosed = errors.New("grouping: cursor closed")

// Cursor is an upstream source whose pulls may block, typically an open
// database result set. Next reports false once the cursor is exhausted.
type Cursor[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Stream is the blocking counterpart of Peeker. Errors from the upstream
// cursor are returned by the pull that hit them, and by every pull after it.
type Stream[T any] interface {
	Peek(ctx context.Context) (T, bool, error)
	Next(ctx context.Context) (T, bool, error)
}

// Lookahead adds one element of lookahead to a Cursor and owns its release.
type Lookahead[T any] struct {
	cur      Cursor[T]
	head     T
	hasHead  bool
	eof      bool
	err      error
	closed   bool
	closeErr error
}

// NewLookahead wraps cur. The caller must Close the result.
func NewLookahead[T any](cur Cursor[T]) *Lookahead[T] {
	return &Lookahead[T]{cur: cur}
}

func (l *Lookahead[T]) Peek(ctx context.Context) (T, bool, error) {
	var zero T
	switch {
	case l.hasHead:
		return l.head, true, nil
	case l.err != nil:
		return zero, false, l.err
	case l.closed:
		return zero, false, ErrClosed
	case l.eof:
		return zero, false, nil
	}

	v, ok, err := l.cur.Next(ctx)
	if err != nil {
		l.err = err
		return zero, false, err
	}
	if !ok {
		l.eof = true
		return zero, false, nil
	}
	l.head, l.hasHead = v, true
	return v, true, nil
}

func (l *Lookahead[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := l.Peek(ctx)
	if ok {
		var zero T
		l.head, l.hasHead = zero, false
	}
	return v, ok, err
}

// Close releases the cursor. The cursor's Close runs exactly once no matter
// how often Close is called or how far the cursor was read.
func (l *Lookahead[T]) Close() error {
	if l.closed {
		return l.closeErr
	}
	var zero T
	l.closed = true
	l.head, l.hasHead = zero, false
	l.closeErr = l.cur.Close()
	return l.closeErr
}

// StreamGrouper yields the runs of a Stream.
type StreamGrouper[K, T any] struct {
	src  Stream[T]
	key  func(T) K
	eq   func(a, b K) bool
	live *StreamRun[K, T]
}

// StreamBy groups src by key, comparing keys with ==.
func StreamBy[K comparable, T any](src Stream[T], key func(T) K) *StreamGrouper[K, T] {
	return StreamByFunc(src, key, func(a, b K) bool { return a == b })
}

// StreamByFunc groups src by key, comparing keys with eq.
func StreamByFunc[K, T any](src Stream[T], key func(T) K, eq func(a, b K) bool) *StreamGrouper[K, T] {
	return &StreamGrouper[K, T]{src: src, key: key, eq: eq}
}

// Next returns the next run, draining and detaching the previous one first.
// It returns false once the stream is exhausted.
func (g *StreamGrouper[K, T]) Next(ctx context.Context) (*StreamRun[K, T], bool, error) {
	if g.live != nil {
		if _, err := g.live.Drain(ctx); err != nil {
			return nil, false, err
		}
		g.live.detached = true
		g.live = nil
	}

	head, ok, err := g.src.Peek(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	g.live = &StreamRun[K, T]{g: g, key: g.key(head)}
	return g.live, true, nil
}

// StreamRun is the Stream counterpart of Run.
type StreamRun[K, T any] struct {
	g        *StreamGrouper[K, T]
	key      K
	started  bool
	done     bool
	detached bool
}

func (r *StreamRun[K, T]) Key() K {
	return r.key
}

func (r *StreamRun[K, T]) Peek(ctx context.Context) (T, bool, error) {
	if r.detached {
		panic(&violation{msg: "Peek on a run whose parent has moved to a later run"})
	}
	var zero T
	if r.done {
		return zero, false, nil
	}
	v, ok, err := r.g.src.Peek(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok || (r.started && !r.g.eq(r.g.key(v), r.key)) {
		return zero, false, nil
	}
	return v, true, nil
}

func (r *StreamRun[K, T]) Next(ctx context.Context) (T, bool, error) {
	if r.detached {
		panic(&violation{msg: "Next on a run whose parent has moved to a later run"})
	}
	v, ok, err := r.Peek(ctx)
	if err != nil {
		return v, false, err
	}
	if !ok {
		r.done = true
		return v, false, nil
	}
	r.started = true
	if _, _, err := r.g.src.Next(ctx); err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Drain consumes the rest of the run and reports how many elements it skipped.
func (r *StreamRun[K, T]) Drain(ctx context.Context) (int, error) {
	n := 0
	for {
		_, ok, err := r.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}
