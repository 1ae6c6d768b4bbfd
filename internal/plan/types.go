package plan

import (
	"reflect"

	"struct-mapper/internal/collection"
	"struct-mapper/internal/common"
	"struct-mapper/internal/dispatch"
	"struct-mapper/internal/match"
	"struct-mapper/node"
	"struct-mapper/options"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

// Plan is the resolved Field Assignment Plan of one rule. Plans are shared by
// every mapping call and never mutated after resolution.
type Plan struct {
	Rule    *rules.Rule
	Pair    rules.TypePair
	Options options.OptionEnum

	// Fields in destination declaration order, every field written at most once.
	Fields []Assignment
	// Unmapped are destination fields left untouched.
	Unmapped []UnmappedField

	// PreHooks and PostHooks are sorted by priority, then declaration order.
	PreHooks  []rules.Hook
	PostHooks []rules.Hook

	Factory *rules.Factory

	// Dispatch is set for abstraction pairs, which have no fields.
	Dispatch *dispatch.Table
}

// Assignment produces one destination field.
type Assignment struct {
	// Field is the destination field name, Index its path for reflect.Value.FieldByIndex.
	Field string
	Index []int
	// Source is empty for custom functions and null defaults.
	Source      string
	SourceIndex []int

	Value     *Value
	Mandatory bool
}

// UnmappedField represents a destination field that couldn't be assigned.
type UnmappedField struct {
	Field string
	// Candidates are the ranked potential matches (for suggestions).
	Candidates match.CandidateList
	Reason     string
}

// Value is the strategy producing a value of type Dst from a value of type Src.
type Value struct {
	Strategy Strategy
	Src, Dst reflect.Type

	// Deref reads through a source pointer, Wrap allocates the destination pointer.
	Deref, Wrap bool
	// Coalesce leaves the destination untouched when the source is nil.
	Coalesce bool

	// Func is the CustomFunction.
	Func *node.Caster
	// Rule is the target of NestedMap and PolymorphicNestedMap.
	Rule *rules.Rule
	// Collection and Elem describe a CollectionProjection.
	Collection *collection.Projector
	Elem       *Value
	// Enum is the member table of EnumByName.
	Enum *primitive.EnumTable
	// Format is used by ConvertibleCast.
	Format *primitive.Format
}

// Strategy describes how a destination value is produced.
type Strategy int

const (
	// StrategyIdentity - the source value is assigned as is.
	StrategyIdentity Strategy = iota
	// StrategyCustomFunction - a ForMember function computes the value.
	StrategyCustomFunction
	// StrategyNestedMap - the value is mapped by another rule.
	StrategyNestedMap
	// StrategyPolymorphicNestedMap - the value is mapped by the rule selected for its runtime type.
	StrategyPolymorphicNestedMap
	// StrategyCollectionProjection - every element is mapped by the element strategy.
	StrategyCollectionProjection
	// StrategyEnumByName - enum members are matched by name.
	StrategyEnumByName
	// StrategyEnumByValue - enum values are reinterpreted numerically.
	StrategyEnumByValue
	// StrategyConvertibleCast - primitive conversion with a format.
	StrategyConvertibleCast
	// StrategyNullDefault - a mandatory field without source gets an initialized empty value.
	StrategyNullDefault
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyIdentity:
		return "identity"
	case StrategyCustomFunction:
		return "custom_function"
	case StrategyNestedMap:
		return "nested_map"
	case StrategyPolymorphicNestedMap:
		return "polymorphic_nested_map"
	case StrategyCollectionProjection:
		return "collection_projection"
	case StrategyEnumByName:
		return "enum_by_name"
	case StrategyEnumByValue:
		return "enum_by_value"
	case StrategyConvertibleCast:
		return "convertible_cast"
	case StrategyNullDefault:
		return "null_default"
	default:
		return common.UnknownStr
	}
}

// Diagnostic codes.
const (
	CodeDuplicatePair     = "duplicate_pair"
	CodeInvalidPair       = "invalid_pair"
	CodeDelegateMissing   = "delegate_missing"
	CodeInvalidMember     = "invalid_member"
	CodeDuplicateOverride = "duplicate_override"
	CodeSignature         = "signature"
	CodeHookTypeMismatch  = "hook_type_mismatch"
	CodeNoConstructible   = "no_constructible_form"
	CodeDuplicateFormat   = "duplicate_format_provider"
	CodeMandatory         = "mandatory_unassigned"
	CodeAbstractOverride  = "abstract_override"
	CodeUnmappedField     = "unmapped_field"
	CodeUnmatchedEnum     = "unmatched_enum_member"
	CodeNoCandidates      = "no_dispatch_candidates"
	CodeStrategy          = "strategy"
)

// Requires lists the rules the plan maps through, in field order.
func (p *Plan) Requires() []*rules.Rule {
	var res []*rules.Rule

	if p.Dispatch != nil {
		for _, c := range p.Dispatch.Candidates {
			res = append(res, c.Rule)
		}
	}

	for _, a := range p.Fields {
		for v := a.Value; v != nil; v = v.Elem {
			if v.Rule != nil {
				res = append(res, v.Rule)
			}
		}
	}

	return res
}

// Abstract reports whether the plan dispatches on the runtime type.
func (p *Plan) Abstract() bool {
	return p.Dispatch != nil
}
