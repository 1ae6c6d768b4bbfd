package plan

import (
	"fmt"
	"strings"

	"struct-mapper/internal/collection"
	"struct-mapper/internal/common"
	"struct-mapper/rules"
)

// Description is the serializable view of a plan.
type Description struct {
	Pair      string             `json:"pair" yaml:"pair"`
	Rule      string             `json:"rule" yaml:"rule"`
	Options   string             `json:"options" yaml:"options"`
	Factory   string             `json:"factory,omitempty" yaml:"factory,omitempty"`
	Dispatch  []string           `json:"dispatch,omitempty" yaml:"dispatch,omitempty"`
	Fields    []FieldDescription `json:"fields,omitempty" yaml:"fields,omitempty"`
	Unmapped  []string           `json:"unmapped,omitempty" yaml:"unmapped,omitempty"`
	PreHooks  []string           `json:"pre_hooks,omitempty" yaml:"pre_hooks,omitempty"`
	PostHooks []string           `json:"post_hooks,omitempty" yaml:"post_hooks,omitempty"`
}

// FieldDescription describes one assignment.
type FieldDescription struct {
	Field     string `json:"field" yaml:"field"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Strategy  string `json:"strategy" yaml:"strategy"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Mandatory bool   `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
}

// Describe renders p for inspection.
func Describe(p *Plan) Description {
	d := Description{
		Pair:    p.Pair.String(),
		Rule:    p.Rule.String(),
		Options: p.Options.String(),
	}

	if p.Factory != nil {
		d.Factory = p.Factory.Name
	}

	if p.Dispatch != nil {
		for _, c := range p.Dispatch.Candidates {
			d.Dispatch = append(d.Dispatch, c.Rule.Pair.String())
		}
	}

	for _, a := range p.Fields {
		d.Fields = append(d.Fields, FieldDescription{
			Field:     a.Field,
			Source:    a.Source,
			Strategy:  a.Value.Strategy.String(),
			Detail:    a.Value.Explain(),
			Mandatory: a.Mandatory,
		})
	}

	for _, u := range p.Unmapped {
		d.Unmapped = append(d.Unmapped, u.Field)
	}

	d.PreHooks = hookNames(p.PreHooks)
	d.PostHooks = hookNames(p.PostHooks)

	return d
}

// Describe renders every plan of the catalog in resolution order.
func (c *Catalog) Describe() []Description {
	res := make([]Description, 0, len(c.order))
	for _, p := range c.order {
		res = append(res, Describe(p))
	}

	return res
}

func hookNames(hooks []rules.Hook) []string {
	if common.IsEmpty(hooks) {
		return nil
	}

	res := make([]string, len(hooks))
	for i, h := range hooks {
		if h.Priority == rules.DefaultPriority {
			res[i] = h.Name
		} else {
			res[i] = fmt.Sprintf("%s@%d", h.Name, h.Priority)
		}
	}

	return res
}

// Explain tells why the value is produced the way it is.
func (v *Value) Explain() string {
	var parts []string

	switch v.Strategy {
	case StrategyCustomFunction:
		parts = append(parts, v.Func.String())
	case StrategyNestedMap, StrategyPolymorphicNestedMap:
		parts = append(parts, v.Rule.Pair.String())
	case StrategyCollectionProjection:
		shape := strings.ToLower(strings.TrimPrefix(v.Collection.Shape.String(), "Shape"))
		if v.Collection.Shape == collection.ShapeArray {
			shape = fmt.Sprintf("%s[%d]", shape, v.Dst.Len())
		}
		parts = append(parts, shape+" of "+v.Elem.Strategy.String())
		if v.Collection.Pre != nil {
			parts = append(parts, "pre "+v.Collection.Pre.Name)
		}
		if v.Collection.Post != nil {
			parts = append(parts, "post "+v.Collection.Post.Name)
		}
	case StrategyEnumByName:
		if len(v.Enum.Unmatched) > 0 {
			parts = append(parts, "unmatched "+strings.Join(v.Enum.Unmatched, ","))
		}
	case StrategyConvertibleCast:
		parts = append(parts, "format "+v.Format.String())
	}

	if v.Deref {
		parts = append(parts, "deref")
	}
	if v.Wrap {
		parts = append(parts, "wrap")
	}
	if v.Coalesce {
		parts = append(parts, "coalesce")
	}

	return strings.Join(parts, ", ")
}
