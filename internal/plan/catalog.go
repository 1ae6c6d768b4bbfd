package plan

import (
	"struct-mapper/rules"
)

// Catalog holds the plans of every rule reachable from a set.
type Catalog struct {
	Set *rules.Set

	plans map[*rules.Rule]*Plan
	order []*Plan
}

func (c *Catalog) add(p *Plan) {
	c.plans[p.Rule] = p
	c.order = append(c.order, p)
}

// Plan returns the plan of rule.
func (c *Catalog) Plan(rule *rules.Rule) (*Plan, bool) {
	p, ok := c.plans[rule]
	return p, ok
}

// Lookup returns the plan of the rule the set uses for pair.
func (c *Catalog) Lookup(pair rules.TypePair) (*Plan, bool) {
	rule, ok := c.Set.Lookup(pair)
	if !ok {
		return nil, false
	}

	return c.Plan(rule)
}

// Plans returns the plans in resolution order.
func (c *Catalog) Plans() []*Plan {
	return c.order
}
