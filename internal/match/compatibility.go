package match

import "reflect"

// Compatibility grades how directly a source value can be stored in a destination field.
type Compatibility int

const (
	Incompatible Compatibility = iota
	// NeedsTransform requires a nested rule, a cast or a custom function.
	NeedsTransform
	// Convertible is a plain Go conversion.
	Convertible
	Assignable
	Identical
)

var compatibilityNames = [...]string{
	Incompatible:   "incompatible",
	NeedsTransform: "needs_transform",
	Convertible:    "convertible",
	Assignable:     "assignable",
	Identical:      "identical",
}

func (c Compatibility) String() string {
	if c < 0 || int(c) >= len(compatibilityNames) {
		return "unknown"
	}

	return compatibilityNames[c]
}

// Compare grades storing a value of source into target.
func Compare(source, target reflect.Type) Compatibility {
	switch {
	case source == nil || target == nil:
		return Incompatible
	case source == target:
		return Identical
	case source.AssignableTo(target):
		return Assignable
	case convertible(source, target):
		return Convertible
	case transformable(source, target):
		return NeedsTransform
	}

	return Incompatible
}

func convertible(source, target reflect.Type) bool {
	// integer to string yields a rune, not digits
	if target.Kind() == reflect.String && source.Kind() != reflect.String && source.Kind() != reflect.Slice {
		return false
	}

	return source.ConvertibleTo(target)
}

func transformable(source, target reflect.Type) bool {
	sk, tk := source.Kind(), target.Kind()

	switch {
	case sk == reflect.Pointer && tk == reflect.Pointer:
		return transformable(source.Elem(), target.Elem())
	case sk == reflect.Pointer:
		return Compare(source.Elem(), target) >= Convertible
	case tk == reflect.Pointer:
		return Compare(source, target.Elem()) >= Convertible
	case sequence(sk) && sequence(tk):
		return Compare(source.Elem(), target.Elem()) >= NeedsTransform
	case sk == reflect.Map && tk == reflect.Map:
		return source.Key() == target.Key() && Compare(source.Elem(), target.Elem()) >= NeedsTransform
	}

	return sk == reflect.Struct && tk == reflect.Struct
}

func sequence(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}
