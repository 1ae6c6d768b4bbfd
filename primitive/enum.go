package primitive

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var ErrEnumMissingField = errors.New("enum member is missing on destination")

// Member is a single named value of an enumeration.
type Member struct {
	Name  string
	Value reflect.Value
}

// Enum is a registered enumeration type with its named members.
type Enum struct {
	Type    reflect.Type
	Members []Member
}

// NewEnum builds an Enum from a name to value table.
// Members are ordered by value and then by name so the result does not depend on map iteration.
func NewEnum[T comparable](members map[string]T) *Enum {
	rtype := reflect.TypeFor[T]()

	enum := &Enum{Type: rtype, Members: make([]Member, 0, len(members))}
	for name, value := range members {
		enum.Members = append(enum.Members, Member{Name: name, Value: reflect.ValueOf(value)})
	}

	slices.SortFunc(enum.Members, func(a, b Member) int {
		if c := compareValues(a.Value, b.Value); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return enum
}

// Name returns the member name of v, or false when v is not a declared member.
func (e *Enum) Name(v reflect.Value) (string, bool) {
	key := v.Interface()
	for _, m := range e.Members {
		if m.Value.Interface() == key {
			return m.Name, true
		}
	}

	return "", false
}

// Value returns the member declared under name.
func (e *Enum) Value(name string) (reflect.Value, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m.Value, true
		}
	}

	return reflect.Value{}, false
}

// IsInteger reports whether the enum has an integer underlying type.
func (e *Enum) IsInteger() bool {
	return baseKind(e.Type).IsInteger()
}

// EnumTable is the by-name lookup between two enumerations, built once per enum pair.
type EnumTable struct {
	Src, Dst *Enum
	// table is keyed by source member value
	table map[any]reflect.Value
	// Unmatched lists source members that have no destination counterpart.
	Unmatched []string
}

// NewEnumTable matches the members of src and dst by name.
func NewEnumTable(src, dst *Enum) *EnumTable {
	t := &EnumTable{Src: src, Dst: dst, table: make(map[any]reflect.Value, len(src.Members))}

	for _, m := range src.Members {
		value, ok := dst.Value(m.Name)
		if !ok {
			t.Unmatched = append(t.Unmatched, m.Name)

			continue
		}

		t.table[m.Value.Interface()] = value
	}

	return t
}

// Convert maps v by member name. A member absent on the destination yields the
// destination zero value, or ErrEnumMissingField when strict is set.
func (t *EnumTable) Convert(v reflect.Value, strict bool) (reflect.Value, error) {
	if value, ok := t.table[v.Interface()]; ok {
		return value, nil
	}

	if !strict {
		return reflect.Zero(t.Dst.Type), nil
	}

	name, ok := t.Src.Name(v)
	if !ok {
		name = fmt.Sprint(v.Interface())
	}

	return reflect.Value{}, fmt.Errorf("%w: could not map `%s` to `%s` as `%s` does not contain field `%s`",
		ErrEnumMissingField, t.Src.Type, t.Dst.Type, t.Dst.Type, name)
}

// ConvertByValue reinterprets v as the dst enum type without validation.
func ConvertByValue(v reflect.Value, dst reflect.Type) reflect.Value {
	return v.Convert(dst)
}

func compareValues(a, b reflect.Value) int {
	switch {
	case a.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.Kind() == reflect.String:
		return cmp.Compare(a.String(), b.String())
	case a.Kind() == reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}
