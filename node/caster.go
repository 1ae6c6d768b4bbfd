package node

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

// Caster describes a user supplied field function.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasCtx       bool
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster validates fn as a field function and describes its signature.
// The optional second parameter receives the mapping context, it must be an interface implemented by ctxType.
//
// Accepted shapes:
//   - func(src S[, ctx C]) D
//   - func(src S[, ctx C]) (D, bool)
//   - func(src S[, ctx C]) (D, error)
//   - func(src S[, ctx C]) (D, bool, error)
func ParseCaster(fn any, ctxType reflect.Type) (Caster, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	t := v.Type()
	if t.IsVariadic() || t.NumIn() < 1 || t.NumIn() > 2 || t.NumOut() < 1 || t.NumOut() > 3 {
		return Caster{}, ErrIsNotACaster
	}

	c := Caster{Src: t.In(0), Dst: t.Out(0), fn: v}
	if doublePointer(c.Src) || doublePointer(c.Dst) {
		return Caster{}, ErrDoublePointer
	}

	if t.NumIn() == 2 {
		in := t.In(1)
		if in.Kind() != reflect.Interface || ctxType == nil || !ctxType.Implements(in) {
			return Caster{}, ErrIsNotACaster
		}

		c.HasCtx = true
	}

	// trailing results: an optional bool, then an optional error
	rest := make([]reflect.Type, 0, 2)
	for i := 1; i < t.NumOut(); i++ {
		rest = append(rest, t.Out(i))
	}

	if n := len(rest); n > 0 && isError(rest[n-1]) {
		c.HasErr = true
		rest = rest[:n-1]
	}

	if len(rest) == 1 && rest[0].Kind() == reflect.Bool {
		c.HasBool = true
		rest = rest[1:]
	}

	if len(rest) > 0 {
		return Caster{}, ErrIsNotACaster
	}

	c.PackageAlias, c.Name = FuncName(v)

	return c, nil
}

// Call invokes the caster. ok is false when the function reported that it
// produced no value, dst must not be written then.
func (c Caster) Call(src reflect.Value, ctx any) (dst reflect.Value, ok bool, err error) {
	in := []reflect.Value{src}
	if c.HasCtx {
		in = append(in, reflect.ValueOf(ctx))
	}

	out := c.fn.Call(in)

	if last := out[len(out)-1]; c.HasErr && !last.IsNil() {
		return reflect.Value{}, false, last.Interface().(error)
	}

	return out[0], !c.HasBool || out[1].Bool(), nil
}

func doublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer
}

// FuncName returns the package alias and the name of a function value.
func FuncName(fnVal reflect.Value) (alias, name string) {
	fnPC := runtime.FuncForPC(fnVal.Pointer())
	if fnPC == nil {
		return "", fnVal.Type().String()
	}

	pkg, name, ok := strings.Cut(path.Base(fnPC.Name()), ".")
	if !ok {
		return "", pkg
	}

	return pkg, name
}

func (c Caster) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}

	return c.PackageAlias + "." + c.Name
}
