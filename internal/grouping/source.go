package grouping

import "iter"

// FromSlice returns a Peeker over items.
func FromSlice[T any](items []T) Peeker[T] {
	return &sliceSource[T]{items: items}
}

type sliceSource[T any] struct {
	items []T
	pos   int
}

func (s *sliceSource[T]) Peek() (T, bool) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[s.pos], true
}

func (s *sliceSource[T]) Next() (T, bool) {
	v, ok := s.Peek()
	if ok {
		s.pos++
	}
	return v, ok
}

// Pulled adapts a push-style iter.Seq into a Peeker. Stop must be called if
// the sequence is abandoned before it is exhausted.
type Pulled[T any] struct {
	next    func() (T, bool)
	stop    func()
	head    T
	hasHead bool
	done    bool
}

// FromSeq returns a Peeker over seq.
func FromSeq[T any](seq iter.Seq[T]) *Pulled[T] {
	next, stop := iter.Pull(seq)
	return &Pulled[T]{next: next, stop: stop}
}

func (p *Pulled[T]) Peek() (T, bool) {
	if p.hasHead {
		return p.head, true
	}
	var zero T
	if p.done {
		return zero, false
	}
	v, ok := p.next()
	if !ok {
		p.done = true
		return zero, false
	}
	p.head, p.hasHead = v, true
	return v, true
}

func (p *Pulled[T]) Next() (T, bool) {
	v, ok := p.Peek()
	if ok {
		var zero T
		p.head, p.hasHead = zero, false
	}
	return v, ok
}

// Stop releases the underlying sequence. It is safe to call more than once.
func (p *Pulled[T]) Stop() {
	var zero T
	p.head, p.hasHead, p.done = zero, false, true
	p.stop()
}
