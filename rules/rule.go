package rules

import (
	"fmt"
	"math"
	"reflect"

	"struct-mapper/node"
	"struct-mapper/options"
	"struct-mapper/primitive"
)

// DefaultPriority is used for hooks declared without a priority, they run after prioritised ones.
const DefaultPriority = math.MaxInt

// Rule declares that a type pair is mappable.
type Rule struct {
	Pair TypePair

	set   *Set
	index int

	ignored   []string
	renames   []Rename
	members   []Member
	pre, post []Hook
	options   *options.OptionEnum
	formats   []FormatBinding
}

// Rename reads the destination field from a differently named source field.
type Rename struct {
	Destination, Source string
}

// Member is a custom function producing one destination field.
type Member struct {
	Destination string
	Func        any
}

// Hook runs before or after the fields of a rule are assigned.
type Hook struct {
	Priority int
	Name     string
	// Src and Dst are the declared parameter types, checked against the rule during resolution.
	Src, Dst reflect.Type

	order int
	call  func(src, dst reflect.Value, ctx Context) error
}

// Call invokes the hook with the source and destination handles.
func (h Hook) Call(src, dst reflect.Value, ctx Context) error {
	return h.call(src, dst, ctx)
}

// Order is the declaration order of the hook within its rule.
func (h Hook) Order() int { return h.order }

// FormatBinding binds a format provider either as the rule default (Pair is nil)
// or to a concrete field type pair.
type FormatBinding struct {
	Pair   *TypePair
	Format *primitive.Format
}

// RuleOption configures a rule.
type RuleOption func(r *Rule)

// Ignore excludes destination fields from assignment.
func Ignore(fields ...string) RuleOption {
	return func(r *Rule) {
		r.ignored = append(r.ignored, fields...)
	}
}

// MapMember assigns the destination field from the named source field.
func MapMember(destination, source string) RuleOption {
	return func(r *Rule) {
		r.renames = append(r.renames, Rename{Destination: destination, Source: source})
	}
}

// ForMember computes the destination field with fn.
// Accepted shapes are func(src S[, ctx Context]) F[, bool][, error] where S is
// the source handle (*Struct) or the source struct and F is exactly the field type.
func ForMember(destination string, fn any) RuleOption {
	return func(r *Rule) {
		r.members = append(r.members, Member{Destination: destination, Func: fn})
	}
}

// PreMap registers a hook run before the fields are assigned, with DefaultPriority.
func PreMap[S, D any](fn func(src S, dst D, ctx Context) error) RuleOption {
	return PreMapWithPriority(DefaultPriority, fn)
}

// PreMapWithPriority registers a pre-hook; lower priorities run first.
func PreMapWithPriority[S, D any](priority int, fn func(src S, dst D, ctx Context) error) RuleOption {
	return func(r *Rule) {
		r.pre = append(r.pre, newHook(priority, len(r.pre), fn))
	}
}

// PostMap registers a hook run after the fields are assigned, with DefaultPriority.
func PostMap[S, D any](fn func(src S, dst D, ctx Context) error) RuleOption {
	return PostMapWithPriority(DefaultPriority, fn)
}

// PostMapWithPriority registers a post-hook; lower priorities run first.
func PostMapWithPriority[S, D any](priority int, fn func(src S, dst D, ctx Context) error) RuleOption {
	return func(r *Rule) {
		r.post = append(r.post, newHook(priority, len(r.post), fn))
	}
}

// WithOptions overrides the set options for this rule.
func WithOptions(o options.OptionEnum) RuleOption {
	return func(r *Rule) {
		r.options = &o
	}
}

// FormatProvider binds the default format of the rule.
func FormatProvider(f *primitive.Format) RuleOption {
	return func(r *Rule) {
		r.formats = append(r.formats, FormatBinding{Format: f})
	}
}

// FormatProviderFor binds a format to fields of source type S converted to destination type D.
func FormatProviderFor[S, D any](f *primitive.Format) RuleOption {
	return func(r *Rule) {
		pair := PairOf[S, D]()
		r.formats = append(r.formats, FormatBinding{Pair: &pair, Format: f})
	}
}

func newHook[S, D any](priority, order int, fn func(S, D, Context) error) Hook {
	return Hook{
		Priority: priority,
		Name:     funcName(fn),
		Src:      reflect.TypeFor[S](),
		Dst:      reflect.TypeFor[D](),
		order:    order,
		call: func(src, dst reflect.Value, ctx Context) error {
			s, _ := src.Interface().(S)
			d, _ := dst.Interface().(D)

			return fn(s, d, ctx)
		},
	}
}

func funcName(fn any) string {
	alias, name := node.FuncName(reflect.ValueOf(fn))
	if alias == "" {
		return name
	}

	return alias + "." + name
}

// With applies further options to the rule.
func (r *Rule) With(opts ...RuleOption) *Rule {
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Set returns the set that declared the rule.
func (r *Rule) Set() *Set { return r.set }

// Index is the declaration order of the rule within its set.
func (r *Rule) Index() int { return r.index }

// Options returns the effective options: the rule override or the set defaults.
func (r *Rule) Options() options.OptionEnum {
	if r.options != nil {
		return *r.options
	}

	return r.set.options
}

func (r *Rule) Ignored() []string        { return r.ignored }
func (r *Rule) Renames() []Rename        { return r.renames }
func (r *Rule) Members() []Member        { return r.members }
func (r *Rule) PreHooks() []Hook         { return r.pre }
func (r *Rule) PostHooks() []Hook        { return r.post }
func (r *Rule) Formats() []FormatBinding { return r.formats }

func (r *Rule) String() string {
	return fmt.Sprintf("%s#%d(%s)", r.set.name, r.index, r.Pair)
}
