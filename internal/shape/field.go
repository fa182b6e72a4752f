package shape

import "fmt"

// fieldInfo is what Check needs to know about a wrapped field.
type fieldInfo struct {
	wrap     wrap
	state    state
	rejected bool
	value    any
}

type field interface {
	info() fieldInfo
}

func mustAllow(shapeName, op string, w wrap, st state) {
	switch {
	case st == present && w == unit:
		panic(&ContractViolation{Op: op, Reason: fmt.Sprintf("%s shape carries no such field", shapeName)})
	case st == null && w != tristate:
		panic(&ContractViolation{Op: op, Reason: fmt.Sprintf("%s shape does not accept null (field is %s)", shapeName, w)})
	}
}

func infoOf[T any](w wrap, s slot[T]) fieldInfo {
	fi := fieldInfo{wrap: w, state: s.state, rejected: s.rejected}
	if s.state == present {
		fi.value = s.val
	}
	return fi
}

// Key wraps an identity field: required under Query and Reference, absent
// under Create and Update.
type Key[S Shape, T any] struct {
	s slot[T]
}

// KeyOf builds a key. It panics with a *ContractViolation when S carries no key.
func KeyOf[S Shape, T any](v T) Key[S, T] {
	r := rulesOf[S]()
	mustAllow(r.name, "KeyOf", r.key, present)
	return Key[S, T]{s: slot[T]{state: present, val: v}}
}

// Get returns the key, or the zero value when it is not set.
func (k Key[S, T]) Get() T { return k.s.val }

// IsSet reports whether the key holds a value.
func (k Key[S, T]) IsSet() bool { return k.s.state == present }

// IsZero reports whether omitzero may leave the key off the wire. A key the
// shape requires is never omitted, so a missing one fails to marshal.
func (k Key[S, T]) IsZero() bool {
	return k.s.omitted(rulesOf[S]().key)
}

// MarshalJSON encodes the key. It fails when S requires a key that is unset.
func (k Key[S, T]) MarshalJSON() ([]byte, error) {
	r := rulesOf[S]()
	return k.s.marshal(r.name, r.key)
}

// UnmarshalJSON decodes the key. A key sent to a shape without one is
// recorded and reported by Check.
func (k *Key[S, T]) UnmarshalJSON(data []byte) error {
	r := rulesOf[S]()
	return k.s.unmarshal(r.name, r.key, data)
}

func (k Key[S, T]) info() fieldInfo { return infoOf(rulesOf[S]().key, k.s) }

// Meta wraps server-owned metadata: required under Query, optional under
// Reference, absent under Create and Update.
type Meta[S Shape, T any] struct {
	s slot[T]
}

// MetaOf builds a metadata field. It panics with a *ContractViolation when S
// carries no metadata.
func MetaOf[S Shape, T any](v T) Meta[S, T] {
	r := rulesOf[S]()
	mustAllow(r.name, "MetaOf", r.meta, present)
	return Meta[S, T]{s: slot[T]{state: present, val: v}}
}

// Get returns the value, or the zero value when it is not set.
func (m Meta[S, T]) Get() T { return m.s.val }

// Lookup returns the value and whether it is set.
func (m Meta[S, T]) Lookup() (T, bool) { return m.s.val, m.s.state == present }

// IsSet reports whether the field holds a value.
func (m Meta[S, T]) IsSet() bool { return m.s.state == present }

// IsZero reports whether omitzero may leave the field off the wire.
func (m Meta[S, T]) IsZero() bool {
	return m.s.omitted(rulesOf[S]().meta)
}

// MarshalJSON encodes the value. An unset optional field encodes as null.
func (m Meta[S, T]) MarshalJSON() ([]byte, error) {
	r := rulesOf[S]()
	return m.s.marshal(r.name, r.meta)
}

// UnmarshalJSON decodes the value. Metadata sent to Create or Update is
// recorded and reported by Check.
func (m *Meta[S, T]) UnmarshalJSON(data []byte) error {
	r := rulesOf[S]()
	return m.s.unmarshal(r.name, r.meta, data)
}

func (m Meta[S, T]) info() fieldInfo { return infoOf(rulesOf[S]().meta, m.s) }

// Data wraps entity data: required under Query and Create, a Patch under
// Update and optional under Reference.
type Data[S Shape, T any] struct {
	s slot[T]
}

// DataOf builds a data field holding v.
func DataOf[S Shape, T any](v T) Data[S, T] {
	return Data[S, T]{s: slot[T]{state: present, val: v}}
}

// DataNull builds an explicitly null data field. Only Update accepts it.
func DataNull[S Shape, T any]() Data[S, T] {
	r := rulesOf[S]()
	mustAllow(r.name, "DataNull", r.data, null)
	return Data[S, T]{s: slot[T]{state: null}}
}

// DataFrom builds a data field from a patch.
func DataFrom[S Shape, T any](p Patch[T]) Data[S, T] {
	r := rulesOf[S]()
	mustAllow(r.name, "DataFrom", r.data, p.s.state)
	return Data[S, T]{s: slot[T]{state: p.s.state, val: p.s.val}}
}

// Get returns the value, or the zero value when the field is absent or null.
func (d Data[S, T]) Get() T { return d.s.val }

// Lookup returns the value and whether it is set.
func (d Data[S, T]) Lookup() (T, bool) { return d.s.val, d.s.state == present }

// IsSet reports whether the field holds a value.
func (d Data[S, T]) IsSet() bool { return d.s.state == present }

// IsNull reports an explicit null, which only Update carries.
func (d Data[S, T]) IsNull() bool { return d.s.state == null }

// Patch returns the tri-state view of the field.
func (d Data[S, T]) Patch() Patch[T] {
	return Patch[T]{s: slot[T]{state: d.s.state, val: d.s.val}}
}

// IsZero reports whether omitzero may leave the field off the wire.
func (d Data[S, T]) IsZero() bool {
	return d.s.omitted(rulesOf[S]().data)
}

// MarshalJSON encodes the field according to the wrap S gives entity data.
func (d Data[S, T]) MarshalJSON() ([]byte, error) {
	r := rulesOf[S]()
	return d.s.marshal(r.name, r.data)
}

// UnmarshalJSON decodes the field. null is accepted only where S allows it
// or T is itself nullable.
func (d *Data[S, T]) UnmarshalJSON(data []byte) error {
	r := rulesOf[S]()
	return d.s.unmarshal(r.name, r.data, data)
}

func (d Data[S, T]) info() fieldInfo { return infoOf(rulesOf[S]().data, d.s) }
