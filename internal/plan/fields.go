package plan

import (
	"reflect"
	"strings"
)

const tagName = "mapper"

type field struct {
	reflect.StructField

	Mandatory bool
	Skip      bool
}

// fieldsOf lists the exported fields of a struct in declaration order, promoted
// fields of embedded structs included in place of the embedded field.
func fieldsOf(t reflect.Type) []field {
	var res []field

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		if sf.Anonymous && derefKind(sf.Type) == reflect.Struct {
			continue
		}

		f := field{StructField: sf}
		for _, opt := range strings.Split(sf.Tag.Get(tagName), ",") {
			switch strings.TrimSpace(opt) {
			case "-":
				f.Skip = true
			case "required":
				f.Mandatory = true
			}
		}

		res = append(res, f)
	}

	return res
}

func byName(fields []field) map[string]field {
	res := make(map[string]field, len(fields))
	for _, f := range fields {
		res[f.Name] = f
	}

	return res
}

func structFields(fields []field) []reflect.StructField {
	res := make([]reflect.StructField, len(fields))
	for i, f := range fields {
		res[i] = f.StructField
	}

	return res
}

func derefKind(t reflect.Type) reflect.Kind {
	if t.Kind() == reflect.Pointer {
		return t.Elem().Kind()
	}

	return t.Kind()
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
