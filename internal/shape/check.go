package shape

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// Check validates v, a record or a data template, against the shape its
// fields are wrapped with. Nested records held by present fields are checked
// too; their errors carry the dotted path of the field.
func Check(v any) error {
	if c, ok := v.(interface{ Check() error }); ok {
		return c.Check()
	}
	return checkFields("", "", v)
}

func checkFields(shapeName, prefix string, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := jsonName(sf)
		if skip {
			continue
		}
		f, ok := rv.Field(i).Interface().(field)
		if !ok {
			continue
		}

		fi := f.info()
		path := prefix + name
		switch {
		case fi.rejected:
			return &PayloadError{Shape: shapeName, Field: path, Reason: "not accepted in a " + shapeName + " payload"}
		case fi.wrap == identity && fi.state == absent:
			return &PayloadError{Shape: shapeName, Field: path, Reason: "required"}
		case fi.state == present:
			if err := checkNested(path, reflect.ValueOf(fi.value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkNested(path string, v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkNested(path, v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkNested(path+"["+strconv.Itoa(i)+"]", v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}

	c, ok := v.Interface().(interface{ Check() error })
	if !ok {
		return nil
	}
	err := c.Check()
	var pe *PayloadError
	if errors.As(err, &pe) {
		pe.Field = path + "." + pe.Field
	}
	return err
}

func jsonName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, false
}
