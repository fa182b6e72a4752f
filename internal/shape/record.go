package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Record is the template every entity is instantiated from. D is the
// entity-specific data template, generic over the same shape S; its fields are
// flattened into the record's JSON object next to id, created and updated.
type Record[S Shape, D any] struct {
	ID      Key[S, string]
	Created Meta[S, time.Time]
	Updated Meta[S, *time.Time]
	Data    D
}

type header[S Shape] struct {
	ID      Key[S, string]      `json:"id,omitzero"`
	Created Meta[S, time.Time]  `json:"created,omitzero"`
	Updated Meta[S, *time.Time] `json:"updated,omitzero"`
}

func (r Record[S, D]) header() header[S] {
	return header[S]{ID: r.ID, Created: r.Created, Updated: r.Updated}
}

// String returns the record's id.
func (r Record[S, D]) String() string { return r.ID.Get() }

// Ref returns an unhydrated reference to the entity with the given id.
func Ref[D any](id string) Record[Reference, D] {
	return Record[Reference, D]{ID: KeyOf[Reference](id)}
}

// Decode parses payload as a record of shape S. Every failure matches
// ErrMalformedPayload.
func Decode[S Shape, D any](payload []byte) (Record[S, D], error) {
	var r Record[S, D]
	if err := json.Unmarshal(payload, &r); err != nil {
		return Record[S, D]{}, asPayloadError[S](err)
	}
	return r, nil
}

// Check validates the record against its shape: required fields are set and
// no field the shape forbids was supplied.
func (r Record[S, D]) Check() error {
	name := Name[S]()
	if err := checkFields(name, "", r.header()); err != nil {
		return err
	}
	return checkFields(name, "", r.Data)
}

// MarshalJSON checks the record and encodes it as one flat JSON object.
func (r Record[S, D]) MarshalJSON() ([]byte, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}
	head, err := json.Marshal(r.header())
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return mergeObjects(head, body)
}

// UnmarshalJSON decodes and checks the record. Failures are *PayloadError
// values naming the dotted path of the field at fault.
func (r *Record[S, D]) UnmarshalJSON(data []byte) error {
	var h header[S]
	if err := decodeFields[S](data, &h); err != nil {
		return err
	}
	var d D
	if err := decodeFields[S](data, &d); err != nil {
		return err
	}

	rec := Record[S, D]{ID: h.ID, Created: h.Created, Updated: h.Updated, Data: d}
	if err := rec.Check(); err != nil {
		return err
	}
	*r = rec
	return nil
}

func asPayloadError[S Shape](err error) error {
	var pe *PayloadError
	if errors.As(err, &pe) {
		return pe
	}
	return &PayloadError{Shape: Name[S](), Err: err}
}

// decodeFields unmarshals the JSON object data into v, a pointer to a struct
// of wrapped fields. When that fails the fields are decoded one at a time so
// the error can name the field at fault.
func decodeFields[S Shape](data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	rt := reflect.TypeOf(v).Elem()
	var raw map[string]json.RawMessage
	if rt.Kind() != reflect.Struct || json.Unmarshal(data, &raw) != nil {
		return asPayloadError[S](err)
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := jsonName(sf)
		if skip {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		if ferr := json.Unmarshal(msg, reflect.New(sf.Type).Interface()); ferr != nil {
			return fieldError[S](name, ferr)
		}
	}
	return asPayloadError[S](err)
}

// fieldError attributes err to the named field. A *PayloadError raised by a
// nested record keeps its reason and has its field path prefixed.
func fieldError[S Shape](name string, err error) error {
	var pe *PayloadError
	if !errors.As(err, &pe) {
		return &PayloadError{Shape: Name[S](), Field: name, Err: err}
	}
	path := name
	if pe.Field != "" {
		path += "." + pe.Field
	}
	return &PayloadError{Shape: Name[S](), Field: path, Reason: pe.Reason, Err: pe.Err}
}

// mergeObjects joins two encoded JSON objects into one.
func mergeObjects(head, body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return nil, fmt.Errorf("shape: record data must encode as a JSON object, got %.40s", body)
	}
	if len(head) == 2 {
		return body, nil
	}
	if len(body) == 2 {
		return head, nil
	}

	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}
