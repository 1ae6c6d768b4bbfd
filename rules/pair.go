package rules

import (
	"fmt"
	"reflect"
)

// TypePair identifies a mapping by exact source and destination types.
type TypePair struct {
	Source      reflect.Type
	Destination reflect.Type
}

// PairOf returns the pair of the type parameters.
func PairOf[S, D any]() TypePair {
	return TypePair{Source: reflect.TypeFor[S](), Destination: reflect.TypeFor[D]()}
}

func (p TypePair) String() string {
	return fmt.Sprintf("%s->%s", p.Source, p.Destination)
}

// IsAbstract reports whether the pair maps an abstraction, which is resolved
// to a concrete pair at runtime.
func (p TypePair) IsAbstract() bool {
	return p.Source.Kind() == reflect.Interface || p.Destination.Kind() == reflect.Interface
}

// Valid reports whether both sides are declarable: structs or interfaces.
func (p TypePair) Valid() bool {
	return declarable(p.Source) && declarable(p.Destination)
}

func declarable(t reflect.Type) bool {
	return t != nil && (t.Kind() == reflect.Struct || t.Kind() == reflect.Interface)
}
