package rules

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"struct-mapper/options"
)

// Overlay is the YAML form of rule declarations. It extends a Set built in Go:
// mappings for pairs already declared are merged into the existing rule.
type Overlay struct {
	// Version of the overlay schema.
	Version string `yaml:"version,omitempty"`

	// Options are added to the set defaults.
	Options []string `yaml:"options,omitempty"`

	// Mappings is a list of type pair declarations.
	Mappings []OverlayMapping `yaml:"mappings"`
}

// OverlayMapping declares or extends one type pair.
type OverlayMapping struct {
	// Source type name (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type name (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// OneToOne maps source field names to differently named target fields.
	// Example: { "OrderedAt": "PlacedAt" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields binds custom functions from the registry to target fields.
	Fields []OverlayField `yaml:"fields,omitempty"`

	// Ignore lists target fields that should not be mapped.
	Ignore []string `yaml:"ignore,omitempty"`

	// Options override the set options for this rule.
	Options []string `yaml:"options,omitempty"`

	// Format names the default format provider of the rule.
	Format string `yaml:"format,omitempty"`
}

// OverlayField binds a registered transform to a target field.
type OverlayField struct {
	Target    string `yaml:"target"`
	Transform string `yaml:"transform"`
}

// LoadOverlay loads and parses a YAML overlay file from the given path.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay file %s: %w", path, err)
	}

	return ParseOverlay(data)
}

// ParseOverlay parses YAML data into an Overlay.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay

	err := yaml.Unmarshal(data, &o)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay YAML: %w", err)
	}

	if o.Version == "" {
		o.Version = "1"
	}

	return &o, nil
}

// Marshal serializes the overlay to YAML.
func (o *Overlay) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}

// Apply declares or extends the rules of s. All problems are reported together.
func (o *Overlay) Apply(s *Set, reg *Registry) error {
	var errs []error

	setOpts, err := options.Parse(o.Options...)
	if err != nil {
		errs = append(errs, err)
	}
	s.MergeOptions(setOpts)

	for i := range o.Mappings {
		m := &o.Mappings[i]

		pair, opts, err := m.resolve(reg)
		if err != nil {
			errs = append(errs, fmt.Errorf("mappings[%d] %s->%s: %w", i, m.Source, m.Target, err))

			continue
		}

		if r, ok := s.Rule(pair); ok {
			r.With(opts...)

			continue
		}

		s.Declare(pair, opts...)
	}

	return errors.Join(errs...)
}

func (m *OverlayMapping) resolve(reg *Registry) (TypePair, []RuleOption, error) {
	var errs []error

	src, err := reg.Type(m.Source)
	if err != nil {
		errs = append(errs, err)
	}

	dst, err := reg.Type(m.Target)
	if err != nil {
		errs = append(errs, err)
	}

	var opts []RuleOption

	for _, source := range slices.Sorted(maps.Keys(m.OneToOne)) {
		opts = append(opts, MapMember(m.OneToOne[source], source))
	}

	if len(m.Ignore) > 0 {
		opts = append(opts, Ignore(m.Ignore...))
	}

	for _, f := range m.Fields {
		fn, err := reg.Transform(f.Transform)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", f.Target, err))

			continue
		}

		opts = append(opts, ForMember(f.Target, fn))
	}

	if len(m.Options) > 0 {
		ruleOpts, err := options.Parse(m.Options...)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, WithOptions(ruleOpts))
		}
	}

	if m.Format != "" {
		f, err := reg.Format(m.Format)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, FormatProvider(f))
		}
	}

	if len(errs) > 0 {
		return TypePair{}, nil, errors.Join(errs...)
	}

	return TypePair{Source: src, Destination: dst}, opts, nil
}
