package plan

import (
	"fmt"
	"reflect"

	"struct-mapper/internal/common"
	"struct-mapper/internal/diagnostic"
	"struct-mapper/rules"
)

// validateSet reports the declaration problems of set and every set reachable through delegations.
func validateSet(set *rules.Set, diags *diagnostic.Diagnostics) {
	visited := map[*rules.Set]struct{}{}
	queue := []*rules.Set{set}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if _, seen := visited[s]; seen {
			continue
		}
		visited[s] = struct{}{}

		for _, pair := range s.Duplicates() {
			diags.AddError(CodeDuplicatePair,
				fmt.Sprintf("type pair is declared more than once in set %q", s.Name()), pair.String(), "")
		}

		for _, pair := range s.InvalidPairs() {
			diags.AddError(CodeInvalidPair,
				fmt.Sprintf("%s and %s must both be struct or interface types", pair.Source, pair.Destination),
				pair.String(), "")
		}

		for _, d := range s.Declarations() {
			if d.Delegate == nil {
				continue
			}

			if _, ok := d.Delegate.Lookup(d.Pair); !ok {
				diags.AddError(CodeDelegateMissing,
					fmt.Sprintf("set %q delegates to %q which has no rule for the pair", s.Name(), d.Delegate.Name()),
					d.Pair.String(), "")
			}

			queue = append(queue, d.Delegate)
		}
	}
}

// validateRule checks the overrides of a concrete rule against the struct fields.
func validateRule(rule *rules.Rule, src, dst map[string]field, diags *diagnostic.Diagnostics) {
	pair := rule.Pair.String()
	configured := map[string]string{}

	claim := func(name, by string) {
		if prev, ok := configured[name]; ok {
			diags.AddError(CodeDuplicateOverride,
				fmt.Sprintf("destination field is configured by both %s and %s", prev, by), pair, name)

			return
		}
		configured[name] = by
	}

	for _, name := range rule.Ignored() {
		if _, ok := dst[name]; !ok {
			diags.AddError(CodeInvalidMember,
				fmt.Sprintf("ignored field does not exist on %s", rule.Pair.Destination), pair, name)

			continue
		}
		claim(name, "Ignore")
	}

	for _, rn := range rule.Renames() {
		if _, ok := dst[rn.Destination]; !ok {
			diags.AddError(CodeInvalidMember,
				fmt.Sprintf("renamed field does not exist on %s", rule.Pair.Destination), pair, rn.Destination)

			continue
		}

		if _, ok := src[rn.Source]; !ok {
			diags.AddError(CodeInvalidMember,
				fmt.Sprintf("source field %s does not exist on %s", rn.Source, rule.Pair.Source), pair, rn.Destination)

			continue
		}
		claim(rn.Destination, "MapMember")
	}

	for _, m := range rule.Members() {
		if _, ok := dst[m.Destination]; !ok {
			diags.AddError(CodeInvalidMember,
				fmt.Sprintf("custom function field does not exist on %s", rule.Pair.Destination), pair, m.Destination)

			continue
		}
		claim(m.Destination, "ForMember")
	}

	validateHooks(rule, diags)
	validateFormats(rule, diags)
}

func validateHooks(rule *rules.Rule, diags *diagnostic.Diagnostics) {
	wantSrc := reflect.PointerTo(rule.Pair.Source)
	wantDst := reflect.PointerTo(rule.Pair.Destination)

	check := func(kind string, hooks []rules.Hook) {
		for _, h := range hooks {
			if h.Src != wantSrc || h.Dst != wantDst {
				diags.AddError(CodeHookTypeMismatch,
					fmt.Sprintf("%s hook %s takes (%s, %s), want (%s, %s)", kind, h.Name, h.Src, h.Dst, wantSrc, wantDst),
					rule.Pair.String(), "")
			}
		}
	}

	check("pre", rule.PreHooks())
	check("post", rule.PostHooks())
}

func validateFormats(rule *rules.Rule, diags *diagnostic.Diagnostics) {
	var defaults []string
	perPair := map[rules.TypePair]int{}

	for _, b := range rule.Formats() {
		if b.Pair == nil {
			defaults = append(defaults, b.Format.String())
			continue
		}

		perPair[*b.Pair]++
		if perPair[*b.Pair] == 2 {
			diags.AddError(CodeDuplicateFormat,
				fmt.Sprintf("more than one format provider for %s", b.Pair), rule.Pair.String(), "")
		}
	}

	if common.IsMultiple(defaults) {
		diags.AddError(CodeDuplicateFormat,
			fmt.Sprintf("more than one default format provider: %v", defaults), rule.Pair.String(), "")
	}
}

// validateAbstract rejects overrides on an abstraction rule, which has no fields of its own.
func validateAbstract(rule *rules.Rule, diags *diagnostic.Diagnostics) {
	pair := rule.Pair.String()

	if rule.Pair.Source.Kind() != reflect.Interface {
		diags.AddError(CodeNoConstructible,
			fmt.Sprintf("destination abstraction %s cannot be built from the concrete source %s",
				rule.Pair.Destination, rule.Pair.Source), pair, "")
	}

	overrides := len(rule.Ignored()) + len(rule.Renames()) + len(rule.Members()) +
		len(rule.PreHooks()) + len(rule.PostHooks()) + len(rule.Formats())
	if overrides > 0 {
		diags.AddError(CodeAbstractOverride,
			"abstraction rules carry no fields or hooks, declare them on the concrete rules", pair, "")
	}
}
