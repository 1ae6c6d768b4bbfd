package collection

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strconv"

	"struct-mapper/rules"
)

var ErrOverflow = errors.New("source has more elements than the destination array")

// ElemFunc maps one source element, at names its position for error paths ("[3]", "[key]").
type ElemFunc func(at string, src reflect.Value) (reflect.Value, error)

// Projector re-maps the elements of a source collection type into a destination collection type.
type Projector struct {
	Source, Destination reflect.Type
	SourceElem, Elem    reflect.Type
	SourceShape, Shape  Shape

	// Pre transforms the source elements, Post the mapped ones. Both are ignored for maps.
	Pre, Post *rules.Projection
}

// New returns the projector between src and dst, false when the shapes do not fit:
// sequences map to sequences, maps to maps with the same key type.
func New(src, dst reflect.Type) (*Projector, bool) {
	srcElem, srcShape := ShapeOf(src)
	dstElem, dstShape := ShapeOf(dst)

	switch {
	case srcShape == ShapeNone || dstShape == ShapeNone:
		return nil, false
	case (srcShape == ShapeMap) != (dstShape == ShapeMap):
		return nil, false
	case srcShape == ShapeMap && src.Key() != dst.Key():
		return nil, false
	}

	return &Projector{
		Source:      src,
		Destination: dst,
		SourceElem:  srcElem,
		Elem:        dstElem,
		SourceShape: srcShape,
		Shape:       dstShape,
	}, true
}

// Project builds the destination collection. Eager shapes are materialized before
// returning, lazy shapes map elements while the consumer iterates: a fault panics
// inside an iter.Seq and is yielded by an iter.Seq2[E, error].
// A nil source collection yields a nil destination.
func (p *Projector) Project(src reflect.Value, fn ElemFunc, ctx rules.Context) (reflect.Value, error) {
	if isNil(src) {
		return reflect.Zero(p.Destination), nil
	}

	switch p.Shape {
	case ShapeMap:
		return p.projectMap(src, fn)
	case ShapeSeq:
		return p.lazy(src, fn, ctx), nil
	case ShapeSeqErr:
		return p.lazyErr(src, fn, ctx), nil
	}

	hint := 0
	if p.SourceShape == ShapeSlice || p.SourceShape == ShapeArray {
		hint = src.Len()
	}

	out := reflect.MakeSlice(reflect.SliceOf(p.Elem), 0, hint)

	seq, failure := p.pipeline(src, fn, ctx)
	for v := range seq {
		if p.Shape == ShapeArray && out.Len() == p.Destination.Len() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrOverflow, p.Destination)
		}

		out = reflect.Append(out, v)
	}

	if *failure != nil {
		return reflect.Value{}, *failure
	}

	if p.Shape == ShapeArray {
		arr := reflect.New(p.Destination).Elem()
		reflect.Copy(arr, out)

		return arr, nil
	}

	return out.Convert(p.Destination), nil
}

func (p *Projector) pipeline(src reflect.Value, fn ElemFunc, ctx rules.Context) (iter.Seq[reflect.Value], *error) {
	failure := new(error)

	elems := p.elements(src, failure)
	if p.Pre != nil {
		elems = p.Pre.Apply(elems, ctx)
	}

	mapped := func(yield func(reflect.Value) bool) {
		i := 0
		for v := range elems {
			out, err := fn("["+strconv.Itoa(i)+"]", v)
			if err != nil {
				*failure = err
				return
			}

			if !yield(out) {
				return
			}
			i++
		}
	}

	if p.Post != nil {
		return p.Post.Apply(mapped, ctx), failure
	}

	return mapped, failure
}

func (p *Projector) elements(src reflect.Value, failure *error) iter.Seq[reflect.Value] {
	switch p.SourceShape {
	case ShapeSeq:
		return func(yield func(reflect.Value) bool) {
			src.Call([]reflect.Value{reflect.MakeFunc(src.Type().In(0), func(args []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yield(args[0]))}
			})})
		}
	case ShapeSeqErr:
		return func(yield func(reflect.Value) bool) {
			src.Call([]reflect.Value{reflect.MakeFunc(src.Type().In(0), func(args []reflect.Value) []reflect.Value {
				if !args[1].IsNil() {
					*failure = args[1].Interface().(error)
					return []reflect.Value{reflect.ValueOf(false)}
				}

				return []reflect.Value{reflect.ValueOf(yield(args[0]))}
			})})
		}
	default:
		return func(yield func(reflect.Value) bool) {
			for i := range src.Len() {
				if !yield(src.Index(i)) {
					return
				}
			}
		}
	}
}

func (p *Projector) lazy(src reflect.Value, fn ElemFunc, ctx rules.Context) reflect.Value {
	return reflect.MakeFunc(p.Destination, func(args []reflect.Value) []reflect.Value {
		yield := args[0]

		seq, failure := p.pipeline(src, fn, ctx)
		for v := range seq {
			if !yield.Call([]reflect.Value{v})[0].Bool() {
				return nil
			}
		}

		if *failure != nil {
			panic(*failure)
		}

		return nil
	})
}

func (p *Projector) lazyErr(src reflect.Value, fn ElemFunc, ctx rules.Context) reflect.Value {
	noErr := reflect.Zero(p.Destination.In(0).In(1))

	return reflect.MakeFunc(p.Destination, func(args []reflect.Value) []reflect.Value {
		yield := args[0]

		seq, failure := p.pipeline(src, fn, ctx)
		for v := range seq {
			if !yield.Call([]reflect.Value{v, noErr})[0].Bool() {
				return nil
			}
		}

		if *failure != nil {
			yield.Call([]reflect.Value{reflect.Zero(p.Elem), reflect.ValueOf(failure).Elem()})
		}

		return nil
	})
}

func (p *Projector) projectMap(src reflect.Value, fn ElemFunc) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(p.Destination, src.Len())

	it := src.MapRange()
	for it.Next() {
		v, err := fn(fmt.Sprintf("[%v]", it.Key().Interface()), it.Value())
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(it.Key(), v)
	}

	return out, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
