package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"struct-mapper/rules"
)

var ErrUnhandledPolymorphicType = errors.New("unhandled polymorphic type")

// Candidate is a concrete (or narrower abstract) rule reachable from an abstraction pair.
type Candidate struct {
	Source reflect.Type
	Rule   *rules.Rule
	// Delegated is set when the rule was reached through a UseMap delegation.
	Delegated bool
}

// Table is the ordered candidate list of one abstraction rule.
type Table struct {
	Pair       rules.TypePair
	Candidates []Candidate
}

// Build collects, in declaration order, the rules of the owning set and its
// delegated pairs whose types fit the abstraction pair of rule.
func Build(rule *rules.Rule) *Table {
	t := &Table{Pair: rule.Pair}

	for _, d := range rule.Set().Declarations() {
		if d.Pair == rule.Pair {
			continue
		}

		target, delegated := d.Rule, false
		if d.Delegate != nil {
			var ok bool
			if target, ok = d.Delegate.Lookup(d.Pair); !ok {
				continue
			}
			delegated = true
		}

		if !fits(d.Pair.Source, rule.Pair.Source) || !fits(d.Pair.Destination, rule.Pair.Destination) {
			continue
		}

		t.Candidates = append(t.Candidates, Candidate{Source: d.Pair.Source, Rule: target, Delegated: delegated})
	}

	return t
}

// fits reports whether values of the declared type t can stand for the abstraction.
func fits(t, abstraction reflect.Type) bool {
	if abstraction.Kind() != reflect.Interface {
		return t == abstraction
	}

	return t.Implements(abstraction) || reflect.PointerTo(t).Implements(abstraction)
}

// Select returns the first candidate matching the runtime type rt.
func (t *Table) Select(rt reflect.Type) (*rules.Rule, error) {
	for _, c := range t.Candidates {
		if c.Matches(rt) {
			return c.Rule, nil
		}
	}

	return nil, fmt.Errorf("%w: could not map type `%s` to `%s` - no matching destination type found",
		ErrUnhandledPolymorphicType, rt, t.Pair.Destination)
}

// Matches reports whether rt is the candidate type, a pointer to it, or implements
// it for interface candidates.
func (c Candidate) Matches(rt reflect.Type) bool {
	if c.Source.Kind() == reflect.Interface {
		return rt.Implements(c.Source)
	}

	return rt == c.Source || rt == reflect.PointerTo(c.Source)
}

func (t *Table) String() string {
	names := make([]string, len(t.Candidates))
	for i, c := range t.Candidates {
		names[i] = c.Rule.Pair.String()
	}

	return fmt.Sprintf("%s[%s]", t.Pair, strings.Join(names, ", "))
}
