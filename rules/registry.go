package rules

import (
	"fmt"
	"reflect"

	"struct-mapper/node"
	"struct-mapper/primitive"
)

// Registry names the Go values an overlay file may refer to: types, field
// functions and format providers.
type Registry struct {
	types      map[string]reflect.Type
	transforms map[string]any
	formats    map[string]*primitive.Format
}

// NewRegistry returns a registry that already knows the invariant format.
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[string]reflect.Type),
		transforms: make(map[string]any),
		formats:    map[string]*primitive.Format{primitive.Invariant.Name: primitive.Invariant},
	}
}

// RegisterType makes T addressable by its short ("store.Order") and fully qualified name.
func RegisterType[T any](r *Registry) {
	r.AddType(reflect.TypeFor[T]())
}

func (r *Registry) AddType(t reflect.Type) {
	r.types[t.String()] = t
	r.types[node.TypeName(t)] = t
}

// AddTransform registers a custom field function under name.
func (r *Registry) AddTransform(name string, fn any) {
	r.transforms[name] = fn
}

// AddFormat registers a format provider under its name.
func (r *Registry) AddFormat(f *primitive.Format) {
	r.formats[f.Name] = f
}

func (r *Registry) Type(name string) (reflect.Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}

	return t, nil
}

func (r *Registry) Transform(name string) (any, error) {
	fn, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q", name)
	}

	return fn, nil
}

func (r *Registry) Format(name string) (*primitive.Format, error) {
	f, ok := r.formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format provider %q", name)
	}

	return f, nil
}
