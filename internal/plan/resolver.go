package plan

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"struct-mapper/internal/collection"
	"struct-mapper/internal/diagnostic"
	"struct-mapper/internal/dispatch"
	"struct-mapper/internal/match"
	"struct-mapper/node"
	"struct-mapper/options"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// MaxCandidates is the maximum number of suggestions for an unmapped field.
	MaxCandidates int
	// SuggestionScore is the minimum combined score of a suggestion.
	SuggestionScore float64
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		MaxCandidates:   3,
		SuggestionScore: match.DefaultSuggestionScore,
	}
}

// Resolver turns the rules of a set into plans.
type Resolver struct {
	set     *rules.Set
	config  ResolutionConfig
	ctxType reflect.Type
	enums   map[node.StructPair]*primitive.EnumTable
}

// NewResolver creates a new Resolver.
func NewResolver(set *rules.Set, config ResolutionConfig) *Resolver {
	return &Resolver{
		set:     set,
		config:  config,
		ctxType: reflect.TypeFor[rules.Context](),
		enums:   make(map[node.StructPair]*primitive.EnumTable),
	}
}

// Resolve resolves every rule reachable from the declarations of the set.
// Rules with configuration errors have no plan in the catalog.
func (r *Resolver) Resolve() (*Catalog, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	validateSet(r.set, &diags)

	catalog := &Catalog{Set: r.set, plans: make(map[*rules.Rule]*Plan)}

	var dealer node.Dealer[*rules.Rule]
	for _, d := range r.set.Declarations() {
		if d.Rule != nil {
			dealer.Needs(d.Rule)
		} else if rule, ok := d.Delegate.Lookup(d.Pair); ok {
			dealer.Needs(rule)
		}
	}

	for rule, ok := dealer.NextNeeds(); ok; rule, ok = dealer.NextNeeds() {
		p, ruleDiags := r.ResolveRule(rule)
		diags.Merge(ruleDiags)

		if p == nil {
			continue
		}

		catalog.add(p)

		for _, dep := range p.Requires() {
			dealer.Needs(dep)
		}
	}

	return catalog, diags
}

// ResolveRule resolves a single rule. The plan is nil when the rule has configuration errors.
func (r *Resolver) ResolveRule(rule *rules.Rule) (*Plan, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	p := &Plan{Rule: rule, Pair: rule.Pair, Options: rule.Options()}

	if rule.Pair.IsAbstract() {
		validateAbstract(rule, &diags)
		if diags.HasErrors() {
			return nil, diags
		}

		p.Dispatch = dispatch.Build(rule)
		if len(p.Dispatch.Candidates) == 0 {
			diags.AddWarning(CodeNoCandidates, "no concrete rule can be dispatched to", rule.Pair.String(), "")
		}

		return p, diags
	}

	srcFields, dstFields := fieldsOf(rule.Pair.Source), fieldsOf(rule.Pair.Destination)
	srcByName, dstByName := byName(srcFields), byName(dstFields)

	validateRule(rule, srcByName, dstByName, &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	if f, ok := rule.Set().LookupFactory(rule.Pair.Destination); ok {
		p.Factory = &f
	}

	p.PreHooks = sortHooks(rule.PreHooks())
	p.PostHooks = sortHooks(rule.PostHooks())

	ignored := map[string]struct{}{}
	for _, name := range rule.Ignored() {
		ignored[name] = struct{}{}
	}

	renames := map[string]string{}
	for _, rn := range rule.Renames() {
		renames[rn.Destination] = rn.Source
	}

	members := map[string]rules.Member{}
	for _, m := range rule.Members() {
		members[m.Destination] = m
	}

	pair := rule.Pair.String()

	for _, f := range dstFields {
		if _, skip := ignored[f.Name]; skip || f.Skip {
			continue
		}

		a := Assignment{Field: f.Name, Index: f.Index, Mandatory: f.Mandatory}

		if m, ok := members[f.Name]; ok {
			v, err := r.customValue(rule, m, f.Type)
			if err != nil {
				addError(&diags, err, pair, f.Name)
				continue
			}

			a.Value = v
			p.Fields = append(p.Fields, a)
			diags.AddInfo(CodeStrategy, v.Explain(), pair, f.Name)

			continue
		}

		srcName, renamed := renames[f.Name]
		if !renamed {
			srcName = f.Name
		}

		reason := "no source field named " + srcName
		if sf, ok := srcByName[srcName]; ok {
			v, err := r.value(rule, sf.Type, f.Type)
			if err != nil {
				addError(&diags, err, pair, f.Name)
				continue
			}

			if v != nil {
				a.Source, a.SourceIndex, a.Value = sf.Name, sf.Index, v
				p.Fields = append(p.Fields, a)
				diags.AddInfo(CodeStrategy, v.Explain(), pair, f.Name)

				continue
			}

			reason = fmt.Sprintf("no strategy maps %s to %s", sf.Type, f.Type)
			if srcBase, dstBase := node.Base(sf.Type), node.Base(f.Type); node.Dispatch(srcBase, dstBase) == node.DispatcherUnknown {
				reason += fmt.Sprintf(": %s source for %s destination", shapeName(srcBase), shapeName(dstBase))
			}
		}

		switch {
		case f.Mandatory && p.Options.Has(options.SuppressNullWarnings):
			a.Value = &Value{Strategy: StrategyNullDefault, Dst: f.Type}
			p.Fields = append(p.Fields, a)
		case f.Mandatory:
			diags.AddError(CodeMandatory, "mandatory field is left unassigned: "+reason, pair, f.Name)
		default:
			candidates := match.RankCandidates(f.Name, f.Type, structFields(srcFields)).
				AboveThreshold(r.config.SuggestionScore).
				Top(r.config.MaxCandidates)

			p.Unmapped = append(p.Unmapped, UnmappedField{Field: f.Name, Candidates: candidates, Reason: reason})
			diags.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticWarning,
				Code:        CodeUnmappedField,
				Message:     reason,
				TypePair:    pair,
				FieldPath:   f.Name,
				Suggestions: candidates.Names(),
			})
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	return p, diags
}

// value selects the strategy of a same-named field pair, nil when none applies.
func (r *Resolver) value(rule *rules.Rule, src, dst reflect.Type) (*Value, error) {
	opts := rule.Options()
	suppress := opts.Has(options.SuppressNullWarnings)

	if src == dst {
		return &Value{Strategy: StrategyIdentity, Src: src, Dst: dst, Coalesce: suppress && nilable(src)}, nil
	}

	srcDepth, srcBase := node.PtrDepthAndBase(src)
	dstDepth, dstBase := node.PtrDepthAndBase(dst)
	if srcDepth > 1 || dstDepth > 1 {
		return nil, nil
	}

	lift := func(v *Value) *Value {
		v.Src, v.Dst = src, dst
		v.Deref, v.Wrap = srcDepth == 1, dstDepth == 1
		v.Coalesce = v.Deref && suppress
		return v
	}

	if srcBase == dstBase {
		return lift(&Value{Strategy: StrategyIdentity}), nil
	}

	set := rule.Set()

	if target, ok := set.Lookup(rules.TypePair{Source: srcBase, Destination: dstBase}); ok {
		v := &Value{Strategy: StrategyNestedMap, Src: src, Dst: dst, Rule: target}
		if target.Pair.IsAbstract() {
			v.Strategy = StrategyPolymorphicNestedMap
		}

		if target.Options().Has(options.PreserveReferences) && dst.Kind() == reflect.Struct {
			return nil, coded(CodeNoConstructible,
				"%s preserves references and needs a pointer or interface destination, got %s", target.Pair, dst)
		}

		return v, nil
	}

	srcEnum, srcOK := set.LookupEnum(srcBase)
	dstEnum, dstOK := set.LookupEnum(dstBase)
	if srcOK && dstOK {
		if opts.Has(options.MapEnumsByValue) && srcEnum.IsInteger() && dstEnum.IsInteger() {
			return lift(&Value{Strategy: StrategyEnumByValue}), nil
		}

		return lift(&Value{Strategy: StrategyEnumByName, Enum: r.enumTable(srcEnum, dstEnum)}), nil
	}

	if proj, ok := collection.New(src, dst); ok {
		return r.collectionValue(rule, proj)
	}

	if opts.Has(options.AllowConvertible) && primitive.IsPrimitive(srcBase) && primitive.IsPrimitive(dstBase) {
		f := formatFor(rule, srcBase, dstBase)
		if primitive.CanConvert(primitive.FromReflectType(srcBase), primitive.FromReflectType(dstBase), f.Categories) {
			return &Value{Strategy: StrategyConvertibleCast, Src: src, Dst: dst, Format: f}, nil
		}
	}

	return nil, nil
}

func (r *Resolver) collectionValue(rule *rules.Rule, proj *collection.Projector) (*Value, error) {
	elem, err := r.value(rule, proj.SourceElem, proj.Elem)
	if elem == nil || err != nil {
		return nil, err
	}

	if proj.Shape != collection.ShapeMap {
		set := rule.Set()

		if pre, ok := set.LookupProjection(proj.SourceElem, proj.Elem, false); ok {
			if pre.Elem != proj.SourceElem {
				return nil, coded(CodeHookTypeMismatch,
					"pre-projection %s filters %s, the source elements are %s", pre.Name, pre.Elem, proj.SourceElem)
			}
			proj.Pre = &pre
		}

		if post, ok := set.LookupProjection(proj.SourceElem, proj.Elem, true); ok {
			if post.Elem != proj.Elem {
				return nil, coded(CodeHookTypeMismatch,
					"post-projection %s filters %s, the destination elements are %s", post.Name, post.Elem, proj.Elem)
			}
			proj.Post = &post
		}
	}

	return &Value{
		Strategy:   StrategyCollectionProjection,
		Src:        proj.Source,
		Dst:        proj.Destination,
		Collection: proj,
		Elem:       elem,
	}, nil
}

func (r *Resolver) customValue(rule *rules.Rule, m rules.Member, dst reflect.Type) (*Value, error) {
	c, err := node.ParseCaster(m.Func, r.ctxType)
	if err != nil {
		return nil, coded(CodeSignature, "custom function: %v", err)
	}

	if c.Src != rule.Pair.Source && c.Src != reflect.PointerTo(rule.Pair.Source) {
		return nil, coded(CodeSignature, "custom function %s takes %s, want %s or *%s",
			c, c.Src, rule.Pair.Source, rule.Pair.Source)
	}

	if c.Dst != dst {
		return nil, coded(CodeSignature, "custom function %s returns %s, the field is %s", c, c.Dst, dst)
	}

	return &Value{Strategy: StrategyCustomFunction, Src: c.Src, Dst: dst, Func: &c}, nil
}

func (r *Resolver) enumTable(src, dst *primitive.Enum) *primitive.EnumTable {
	key := node.StructPair{Src: src.Type, Dst: dst.Type}
	if t, ok := r.enums[key]; ok {
		return t
	}

	t := primitive.NewEnumTable(src, dst)
	r.enums[key] = t

	return t
}

// formatFor picks the per-pair format, else the rule default, else Invariant.
func formatFor(rule *rules.Rule, src, dst reflect.Type) *primitive.Format {
	var def *primitive.Format

	for _, b := range rule.Formats() {
		switch {
		case b.Pair == nil:
			def = b.Format
		case b.Pair.Source == src && b.Pair.Destination == dst:
			return b.Format
		}
	}

	if def != nil {
		return def
	}

	return primitive.Invariant
}

func shapeName(t reflect.Type) string {
	return strings.ToLower(strings.TrimPrefix(node.Classify(t).String(), "Dispatcher"))
}

func sortHooks(hooks []rules.Hook) []rules.Hook {
	res := slices.Clone(hooks)
	slices.SortFunc(res, func(a, b rules.Hook) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.Order(), b.Order()))
	})

	return res
}

type codedError struct {
	code, msg string
}

func (e *codedError) Error() string { return e.msg }

func coded(code, format string, args ...any) error {
	return &codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

func addError(diags *diagnostic.Diagnostics, err error, pair, field string) {
	var ce *codedError
	if errors.As(err, &ce) {
		diags.AddError(ce.code, ce.msg, pair, field)
		return
	}

	diags.AddError(CodeSignature, err.Error(), pair, field)
}
