// Package shape defines a record template that serves four representations
// from a single definition: the fully hydrated read record (Query), the
// creation payload (Create), the partial update payload (Update) and the
// embeddable lazy link to another entity (Reference).
//
// Every field of a record is wrapped in one of three categories:
//
//	         Key        Meta       Data
//	Query    required   required   required
//	Create   -          -          required
//	Update   -          -          tri-state patch
//	Ref      required   optional   optional
//
// The shape is a type parameter of every wrapper, so a value typed under one
// shape can never hold a field shaped for another.
package shape

// wrap is the wrapping strategy a shape applies to a field category.
type wrap uint8

const (
	identity wrap = iota // always present
	unit                 // never present
	optional             // present or absent
	tristate             // absent, null or a value
)

func (w wrap) String() string {
	switch w {
	case identity:
		return "required"
	case unit:
		return "unit"
	case optional:
		return "optional"
	case tristate:
		return "patch"
	}
	return "unknown"
}

// rules selects the wrapping strategy per field category.
type rules struct {
	name string
	key  wrap
	meta wrap
	data wrap
}

// Shape is the closed set of shape markers. The unexported method keeps other
// packages from adding members.
type Shape interface {
	Query | Create | Update | Reference
	rules() rules
}

// Query shapes a fully hydrated record as read from storage.
type Query struct{}

// Create shapes a creation payload: no identity, no metadata, all data.
type Create struct{}

// Update shapes a partial update payload where every data field is a Patch.
type Update struct{}

// Reference shapes an embedded link to another entity: the id is required,
// metadata and data are hydrated only when available.
type Reference struct{}

func (Query) rules() rules     { return rules{name: "query", key: identity, meta: identity, data: identity} }
func (Create) rules() rules    { return rules{name: "create", key: unit, meta: unit, data: identity} }
func (Update) rules() rules    { return rules{name: "update", key: unit, meta: unit, data: tristate} }
func (Reference) rules() rules { return rules{name: "reference", key: identity, meta: optional, data: optional} }

func rulesOf[S Shape]() rules {
	var s S
	return s.rules()
}

// Name returns the lower-case name of the shape S.
func Name[S Shape]() string {
	return rulesOf[S]().name
}
