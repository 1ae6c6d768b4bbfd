package node

import (
	"reflect"

	"struct-mapper/primitive"
)

// SequenceEnum is the container shape of a homogeneous sequence.
type SequenceEnum int

const (
	SequenceNone  SequenceEnum = iota
	SequenceSlice              // growable list
	SequenceArray              // fixed length
	SequenceSeq                // lazy iter.Seq[E]
	SequenceSeqErr             // lazy iter.Seq2[E, error]
)

// Classify returns how values of the base type t are mapped.
func Classify(t reflect.Type) DispatcherEnum {
	if t.Kind() == reflect.Ptr {
		panic("dispatcher is not allowing pointer reflect types")
	}

	if primitive.IsPrimitive(t) {
		return DispatcherPrimitive
	}

	if _, shape := Sequence(t); shape != SequenceNone {
		return DispatcherSlice
	}

	switch t.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Map:
		return DispatcherMap
	case reflect.Struct:
		return DispatcherStruct
	default:
		return DispatcherUnknown
	}
}

// Dispatch classifies the pair by the destination shape, DispatcherUnknown when
// the source shape does not fit.
func Dispatch(src, dst reflect.Type) DispatcherEnum {
	if src.Kind() == reflect.Ptr || dst.Kind() == reflect.Ptr {
		panic("dispatcher is not allowing pointer reflect types")
	}

	dstKind := Classify(dst)
	if dstKind == DispatcherInterface {
		return DispatcherInterface
	}

	if Classify(src) != dstKind {
		return DispatcherUnknown
	}

	return dstKind
}

// Sequence recognises slices, arrays, iter.Seq[E] and iter.Seq2[E, error] and returns their element type.
func Sequence(t reflect.Type) (elem reflect.Type, shape SequenceEnum) {
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil, SequenceNone // raw bytes are copied, not projected
		}
		return t.Elem(), SequenceSlice
	case reflect.Array:
		return t.Elem(), SequenceArray
	case reflect.Func:
	default:
		return nil, SequenceNone
	}

	if t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, SequenceNone
	}

	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, SequenceNone
	}

	switch yield.NumIn() {
	case 1:
		return yield.In(0), SequenceSeq
	case 2:
		if isError(yield.In(1)) && yield.In(1).Kind() == reflect.Interface {
			return yield.In(0), SequenceSeqErr
		}
	}

	return nil, SequenceNone
}

// Base strips all pointer levels.
func Base(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for t != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}
