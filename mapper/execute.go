package mapper

import (
	"fmt"
	"reflect"

	"struct-mapper/internal/plan"
	"struct-mapper/options"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

// executor walks one call chain.
type executor struct {
	m *Mapper
	s Session
}

// frame is the assignment being produced, for error reporting and rule options.
type frame struct {
	pair  rules.TypePair
	opts  options.OptionEnum
	field string
}

// nested maps src by rule into a value of type dst. ok is false for nil sources,
// whose destination is left untouched.
func (e *executor) nested(rule *rules.Rule, src reflect.Value, dst reflect.Type, path string) (reflect.Value, bool, error) {
	if src.Kind() == reflect.Interface {
		if src.IsNil() {
			return reflect.Value{}, false, nil
		}
		src = src.Elem()
	}

	if src.Kind() == reflect.Pointer && src.IsNil() {
		return reflect.Value{}, false, nil
	}

	p, ok := e.m.catalog.Plan(rule)
	if !ok {
		return reflect.Value{}, false, &MappingError{Pair: rule.Pair, Path: path, Err: ErrUnmappedPair}
	}

	if p.Abstract() {
		target, err := p.Dispatch.Select(src.Type())
		if err != nil {
			return reflect.Value{}, false, &MappingError{Pair: p.Pair, Path: path, RuntimeType: src.Type(), Err: err}
		}

		return e.nested(target, src, dst, path)
	}

	ptr, err := e.object(p, src, path)
	if err != nil {
		return reflect.Value{}, false, err
	}

	switch {
	case dst.Kind() == reflect.Pointer:
		return ptr, true, nil
	case dst.Kind() == reflect.Interface && ptr.Type().Implements(dst):
		return ptr, true, nil
	case ptr.Elem().Type().AssignableTo(dst):
		return ptr.Elem(), true, nil
	default:
		return reflect.Value{}, false, &MappingError{
			Pair: p.Pair,
			Path: path,
			Err:  fmt.Errorf("%w: %s does not implement %s", ErrUnhandledPolymorphicType, ptr.Type(), dst),
		}
	}
}

// object returns the populated destination handle (*D) of a concrete plan.
func (e *executor) object(p *plan.Plan, src reflect.Value, path string) (reflect.Value, error) {
	identity := src.Kind() == reflect.Pointer

	handle := src
	switch {
	case identity:
	case src.CanAddr():
		handle = src.Addr()
	default:
		handle = reflect.New(src.Type())
		handle.Elem().Set(src)
	}

	populated := false
	populate := func(dst reflect.Value) error {
		populated = true
		return e.populate(p, handle, dst, path)
	}

	if identity && p.Options.Has(options.PreserveReferences) {
		key := RefKey{Source: handle.Interface(), Destination: p.Pair.Destination}

		dst, err := e.s.GetOrCreate(key, func() reflect.Value { return e.allocate(p) }, populate)
		if err == nil && !populated {
			e.m.metrics.recordReference()
		}

		return dst, err
	}

	dst := e.allocate(p)

	return dst, populate(dst)
}

func (e *executor) allocate(p *plan.Plan) reflect.Value {
	if p.Factory != nil {
		if dst := p.Factory.New(e.s); !dst.IsNil() {
			return dst
		}
	}

	return reflect.New(p.Pair.Destination)
}

// populate runs the hooks and assignments of p on the handles src (*S) and dst (*D).
func (e *executor) populate(p *plan.Plan, src, dst reflect.Value, path string) error {
	if err := e.s.IncrementDepth(); err != nil {
		return fault(p.Pair, "", path, err)
	}
	defer e.s.DecrementDepth()

	e.m.metrics.recordNode(e.m.labels[p])

	for _, h := range p.PreHooks {
		if err := h.Call(src, dst, e.s); err != nil {
			return fault(p.Pair, "", path, fmt.Errorf("pre-hook %s: %w", h.Name, err))
		}
	}

	for _, a := range p.Fields {
		if err := e.assign(p, a, src, dst.Elem(), path); err != nil {
			return err
		}
	}

	for _, h := range p.PostHooks {
		if err := h.Call(src, dst, e.s); err != nil {
			return fault(p.Pair, "", path, fmt.Errorf("post-hook %s: %w", h.Name, err))
		}
	}

	return nil
}

func (e *executor) assign(p *plan.Plan, a plan.Assignment, src, target reflect.Value, path string) error {
	var in reflect.Value

	switch {
	case a.Value.Strategy == plan.StrategyCustomFunction:
		in = src
	case a.Source != "":
		field, err := src.Elem().FieldByIndexErr(a.SourceIndex)
		if err != nil {
			// promoted through a nil embedded pointer
			return nil
		}
		in = field
	}

	out, ok, err := e.value(a.Value, in, frame{pair: p.Pair, opts: p.Options, field: a.Field}, joinPath(path, a.Field))
	if err != nil || !ok {
		return err
	}

	writable(target, a.Index).Set(out)

	return nil
}

// value produces the destination of v from src. ok is false when the destination must stay untouched.
func (e *executor) value(v *plan.Value, src reflect.Value, f frame, path string) (reflect.Value, bool, error) {
	switch v.Strategy {
	case plan.StrategyCustomFunction:
		arg := src
		if v.Func.Src.Kind() != reflect.Pointer {
			arg = src.Elem()
		}

		out, ok, err := v.Func.Call(arg, e.s)
		if err != nil {
			return reflect.Value{}, false, fault(f.pair, f.field, path, fmt.Errorf("%s: %w", v.Func, err))
		}

		return out, ok, nil

	case plan.StrategyNestedMap, plan.StrategyPolymorphicNestedMap:
		return e.nested(v.Rule, src, v.Dst, path)

	case plan.StrategyCollectionProjection:
		return e.collection(v, src, f, path)

	case plan.StrategyConvertibleCast:
		out, err := primitive.Cast(src, v.Dst, v.Format, f.opts.Has(options.SuppressNullWarnings))
		if err != nil {
			return reflect.Value{}, false, fault(f.pair, f.field, path, err)
		}

		return out, true, nil

	case plan.StrategyNullDefault:
		return emptyValue(v.Dst), true, nil
	}

	if v.Src == v.Dst {
		if v.Coalesce && src.IsNil() {
			return reflect.Value{}, false, nil
		}

		return src, true, nil
	}

	if v.Deref {
		if src.IsNil() {
			return reflect.Value{}, false, nil
		}
		src = src.Elem()
	}

	out := src

	switch v.Strategy {
	case plan.StrategyEnumByName:
		var err error
		if out, err = v.Enum.Convert(src, f.opts.Has(options.ThrowOnUnmappedEnum)); err != nil {
			return reflect.Value{}, false, fault(f.pair, f.field, path, err)
		}
	case plan.StrategyEnumByValue:
		out = primitive.ConvertByValue(src, base(v.Dst))
	}

	if v.Wrap {
		ptr := reflect.New(out.Type())
		ptr.Elem().Set(out)
		out = ptr
	}

	return out, true, nil
}

func (e *executor) collection(v *plan.Value, src reflect.Value, f frame, path string) (reflect.Value, bool, error) {
	elem := func(at string, in reflect.Value) (reflect.Value, error) {
		out, ok, err := e.value(v.Elem, in, f, path+at)
		if err != nil {
			return reflect.Value{}, err
		}

		if !ok {
			return reflect.Zero(v.Elem.Dst), nil
		}

		return out, nil
	}

	out, err := v.Collection.Project(src, elem, e.s)
	if err != nil {
		return reflect.Value{}, false, fault(f.pair, f.field, path, err)
	}

	return out, true, nil
}

// writable returns the field at index, allocating nil embedded pointers on the way.
func writable(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return v
}

// emptyValue is an initialized empty value of t.
func emptyValue(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem())
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(t)
	default:
		return reflect.Zero(t)
	}
}

func base(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
