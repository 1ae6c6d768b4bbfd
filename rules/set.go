package rules

import (
	"fmt"
	"iter"
	"reflect"

	"struct-mapper/node"
	"struct-mapper/options"
	"struct-mapper/primitive"
)

// Set is a named, ordered collection of mapping rules sharing default options.
type Set struct {
	name    string
	options options.OptionEnum

	entries    []Declaration
	index      map[TypePair]*Rule
	delegates  map[TypePair]*Set
	duplicates []TypePair
	invalid    []TypePair

	enums       map[reflect.Type]*primitive.Enum
	factories   map[reflect.Type]Factory
	projections map[projectionKey]Projection
}

// Declaration is one entry of a set in declaration order: either an own rule or
// a delegation of the pair to another set.
type Declaration struct {
	Pair     TypePair
	Rule     *Rule
	Delegate *Set
}

// Factory allocates destination structs of one type.
type Factory struct {
	Type reflect.Type
	Name string
	New  func(ctx Context) reflect.Value
}

// Projection is a sequence transform applied around per-element mapping of a collection.
type Projection struct {
	// Elem is the exact element type the transform was declared for.
	Elem  reflect.Type
	Name  string
	Apply func(seq iter.Seq[reflect.Value], ctx Context) iter.Seq[reflect.Value]
}

type projectionKey struct {
	pair TypePair
	post bool
}

// NewSet creates an empty set with default options.
func NewSet(name string, opts ...options.OptionEnum) *Set {
	return &Set{
		name:        name,
		options:     options.OptionNone.With(opts...),
		index:       make(map[TypePair]*Rule),
		delegates:   make(map[TypePair]*Set),
		enums:       make(map[reflect.Type]*primitive.Enum),
		factories:   make(map[reflect.Type]Factory),
		projections: make(map[projectionKey]Projection),
	}
}

func (s *Set) Name() string                { return s.name }
func (s *Set) Options() options.OptionEnum { return s.options }
func (s *Set) Declarations() []Declaration { return s.entries }
func (s *Set) Duplicates() []TypePair      { return s.duplicates }
func (s *Set) InvalidPairs() []TypePair    { return s.invalid }

// MergeOptions adds flags to the set defaults.
func (s *Set) MergeOptions(o options.OptionEnum) { s.options |= o }

// Map declares the pair S->D. S and D are struct or interface types.
func Map[S, D any](s *Set, opts ...RuleOption) *Rule {
	return s.Declare(PairOf[S, D](), opts...)
}

// Declare adds a rule for pair. Declaring a pair twice is recorded and reported during resolution.
func (s *Set) Declare(pair TypePair, opts ...RuleOption) *Rule {
	r := &Rule{Pair: pair, set: s, index: len(s.entries)}
	r.With(opts...)

	if !pair.Valid() {
		s.invalid = append(s.invalid, pair)

		return r
	}

	if s.declared(pair) {
		s.duplicates = append(s.duplicates, pair)

		return r
	}

	s.index[pair] = r
	s.entries = append(s.entries, Declaration{Pair: pair, Rule: r})

	return r
}

// UseMap delegates the pair S->D to another set.
func UseMap[S, D any](s *Set, other *Set) {
	s.Delegate(PairOf[S, D](), other)
}

// Delegate delegates pair to other.
func (s *Set) Delegate(pair TypePair, other *Set) {
	if !pair.Valid() {
		s.invalid = append(s.invalid, pair)

		return
	}

	if s.declared(pair) {
		s.duplicates = append(s.duplicates, pair)

		return
	}

	s.delegates[pair] = other
	s.entries = append(s.entries, Declaration{Pair: pair, Delegate: other})
}

// Rule returns the rule declared in this set, ignoring delegations.
func (s *Set) Rule(pair TypePair) (*Rule, bool) {
	r, ok := s.index[pair]
	return r, ok
}

// Lookup finds the rule for pair in this set or through delegations.
func (s *Set) Lookup(pair TypePair) (*Rule, bool) {
	return s.lookup(pair, map[*Set]struct{}{})
}

func (s *Set) lookup(pair TypePair, visited map[*Set]struct{}) (*Rule, bool) {
	if _, seen := visited[s]; seen {
		return nil, false
	}
	visited[s] = struct{}{}

	if r, ok := s.index[pair]; ok {
		return r, true
	}

	if other, ok := s.delegates[pair]; ok {
		return other.lookup(pair, visited)
	}

	return nil, false
}

// Enum registers the members of an enumeration type.
func Enum[T comparable](s *Set, members map[string]T) {
	e := primitive.NewEnum(members)
	s.enums[e.Type] = e
}

// LookupEnum finds a registered enum in this set or in any delegated set.
func (s *Set) LookupEnum(t reflect.Type) (*primitive.Enum, bool) {
	var found *primitive.Enum

	s.walk(func(set *Set) bool {
		found = set.enums[t]
		return found == nil
	})

	return found, found != nil
}

// NewFactory registers the allocator of destination struct D.
func NewFactory[D any](s *Set, fn func(ctx Context) *D) {
	t := reflect.TypeFor[D]()
	s.factories[t] = Factory{
		Type: t,
		Name: funcName(fn),
		New: func(ctx Context) reflect.Value {
			return reflect.ValueOf(fn(ctx))
		},
	}
}

// LookupFactory finds the allocator of t in this set or in any delegated set.
func (s *Set) LookupFactory(t reflect.Type) (Factory, bool) {
	var (
		found Factory
		ok    bool
	)

	s.walk(func(set *Set) bool {
		found, ok = set.factories[t]
		return !ok
	})

	return found, ok
}

// PreProjection registers a transform of source elements for collections of S mapped to D.
func PreProjection[S, D any](s *Set, fn func(seq iter.Seq[S], ctx Context) iter.Seq[S]) {
	s.projections[projectionKey{pair: elemPair[S, D]()}] = newProjection(fn)
}

// PostProjection registers a transform of mapped elements for collections of S mapped to D.
func PostProjection[S, D any](s *Set, fn func(seq iter.Seq[D], ctx Context) iter.Seq[D]) {
	s.projections[projectionKey{pair: elemPair[S, D](), post: true}] = newProjection(fn)
}

// LookupProjection returns the projection keyed by the element base types.
func (s *Set) LookupProjection(src, dst reflect.Type, post bool) (Projection, bool) {
	p, ok := s.projections[projectionKey{
		pair: TypePair{Source: node.Base(src), Destination: node.Base(dst)},
		post: post,
	}]

	return p, ok
}

func elemPair[S, D any]() TypePair {
	return TypePair{Source: node.Base(reflect.TypeFor[S]()), Destination: node.Base(reflect.TypeFor[D]())}
}

func newProjection[E any](fn func(iter.Seq[E], Context) iter.Seq[E]) Projection {
	return Projection{
		Elem: reflect.TypeFor[E](),
		Name: funcName(fn),
		Apply: func(seq iter.Seq[reflect.Value], ctx Context) iter.Seq[reflect.Value] {
			typed := func(yield func(E) bool) {
				for v := range seq {
					e, _ := v.Interface().(E)
					if !yield(e) {
						return
					}
				}
			}

			return func(yield func(reflect.Value) bool) {
				for e := range fn(typed, ctx) {
					if !yield(reflect.ValueOf(&e).Elem()) {
						return
					}
				}
			}
		},
	}
}

// walk visits this set and every set reachable through delegations once, until fn returns false.
func (s *Set) walk(fn func(set *Set) bool) {
	visited := map[*Set]struct{}{}
	queue := []*Set{s}

	for len(queue) > 0 {
		set := queue[0]
		queue = queue[1:]

		if _, seen := visited[set]; seen {
			continue
		}
		visited[set] = struct{}{}

		if !fn(set) {
			return
		}

		for _, d := range set.entries {
			if d.Delegate != nil {
				queue = append(queue, d.Delegate)
			}
		}
	}
}

func (s *Set) declared(pair TypePair) bool {
	_, own := s.index[pair]
	_, delegated := s.delegates[pair]

	return own || delegated
}

func (s *Set) String() string {
	return fmt.Sprintf("%s(%d rules, %s)", s.name, len(s.entries), s.options)
}
