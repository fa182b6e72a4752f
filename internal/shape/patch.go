package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

type state uint8

const (
	absent state = iota
	null
	present
)

var nullLiteral = []byte("null")

// slot is the storage shared by every wrapper. rejected records a field that
// arrived on the wire although the shape does not accept it; it is reported
// by Check so the error can name the field.
type slot[T any] struct {
	state    state
	val      T
	rejected bool
}

func (s slot[T]) omitted(w wrap) bool {
	return s.state == absent && w != identity
}

func (s slot[T]) marshal(shapeName string, w wrap) ([]byte, error) {
	switch s.state {
	case present:
		return json.Marshal(s.val)
	case null:
		return nullLiteral, nil
	}
	if w == identity {
		return nil, &PayloadError{Shape: shapeName, Reason: "required field is not set"}
	}
	return nullLiteral, nil
}

func (s *slot[T]) unmarshal(shapeName string, w wrap, data []byte) error {
	*s = slot[T]{}
	if w == unit {
		s.rejected = true
		return nil
	}

	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		switch w {
		case tristate:
			s.state = null
			return nil
		case optional:
			return nil
		}
		if !nullable[T]() {
			return &PayloadError{Shape: shapeName, Reason: "null is not allowed for a required field"}
		}
		s.state = present
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		// A nested record already names its own field; the caller adds the prefix.
		var pe *PayloadError
		if errors.As(err, &pe) {
			return pe
		}
		return &PayloadError{Shape: shapeName, Err: err}
	}
	s.state, s.val = present, v
	return nil
}

// nullable reports whether null is a legal value of T itself.
func nullable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// Patch is a tri-state value: Absent (not sent), Null (sent as null) or
// Value (sent with a value). Absent encodes as field omission when the field
// is tagged omitzero.
type Patch[T any] struct {
	s slot[T]
}

// Absent returns a patch that leaves the field untouched.
func Absent[T any]() Patch[T] { return Patch[T]{} }

// Null returns a patch that clears the field.
func Null[T any]() Patch[T] { return Patch[T]{s: slot[T]{state: null}} }

// Value returns a patch that sets the field to v.
func Value[T any](v T) Patch[T] { return Patch[T]{s: slot[T]{state: present, val: v}} }

// IsAbsent reports a patch that leaves the field untouched.
func (p Patch[T]) IsAbsent() bool { return p.s.state == absent }

// IsNull reports a patch that clears the field.
func (p Patch[T]) IsNull() bool { return p.s.state == null }

// IsSet reports a patch that carries a value.
func (p Patch[T]) IsSet() bool { return p.s.state == present }

// Get returns the value and true when the patch carries a value.
func (p Patch[T]) Get() (T, bool) {
	return p.s.val, p.s.state == present
}

// IsZero reports an absent patch, which omitzero leaves off the wire.
func (p Patch[T]) IsZero() bool { return p.s.state == absent }

// MarshalJSON encodes a value or null. An absent patch encodes as null too;
// omitzero keeps it off the wire.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	return p.s.marshal("patch", tristate)
}

// UnmarshalJSON decodes null as a clearing patch and anything else as a value.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	return p.s.unmarshal("patch", tristate, data)
}

// String renders the patch for logs. Pointers are followed, so a present
// nil pointer prints as null.
func (p Patch[T]) String() string {
	switch p.s.state {
	case null:
		return "null"
	case present:
		v := reflect.ValueOf(&p.s.val).Elem()
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return "null"
			}
			v = v.Elem()
		}
		return fmt.Sprint(v.Interface())
	}
	return "absent"
}
