package collection

import (
	"reflect"

	"struct-mapper/node"
)

//go:generate go tool stringer -type=Shape -output=shape_string.go

// Shape is the container shape of a collection field.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeSlice
	ShapeArray
	ShapeSeq
	ShapeSeqErr
	ShapeMap
)

// ShapeOf returns the element type and the container shape of t.
// For maps the element is the value type.
func ShapeOf(t reflect.Type) (elem reflect.Type, shape Shape) {
	if t.Kind() == reflect.Map {
		return t.Elem(), ShapeMap
	}

	elem, seq := node.Sequence(t)
	switch seq {
	case node.SequenceSlice:
		return elem, ShapeSlice
	case node.SequenceArray:
		return elem, ShapeArray
	case node.SequenceSeq:
		return elem, ShapeSeq
	case node.SequenceSeqErr:
		return elem, ShapeSeqErr
	default:
		return nil, ShapeNone
	}
}
