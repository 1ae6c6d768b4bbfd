package options

import (
	"fmt"
	"strings"
)

// OptionEnum is a bit set of mapping behaviour switches.
// Options are declared on a rule set and may be overridden per rule.
type OptionEnum int

const (
	AllowConvertible     OptionEnum = 1 << iota // primitive fields of different kinds are converted with a format provider
	SuppressNullWarnings                        // nil sources are coalesced and mandatory fields get a default value
	PreserveReferences                          // shared and cyclic sources map to a single destination instance
	MapEnumsByValue                             // enum fields are reinterpreted numerically instead of matched by name
	ThrowOnUnmappedEnum                         // unmatched enum members fail the call instead of yielding zero

	OptionAll  OptionEnum = (1 << iota) - 1 // all options combined
	OptionNone OptionEnum = 0               // no options selected
)

var optionNames = []struct {
	option OptionEnum
	name   string
}{
	{AllowConvertible, "allow_convertible"},
	{SuppressNullWarnings, "suppress_null_warnings"},
	{PreserveReferences, "preserve_references"},
	{MapEnumsByValue, "map_enums_by_value"},
	{ThrowOnUnmappedEnum, "throw_on_unmapped_enum"},
}

// Has reports whether every bit of flag is set.
func (o OptionEnum) Has(flag OptionEnum) bool {
	return o&flag == flag
}

// With returns the set extended by flags.
func (o OptionEnum) With(flags ...OptionEnum) OptionEnum {
	for _, f := range flags {
		o |= f
	}

	return o
}

func (o OptionEnum) String() string {
	if o == OptionNone {
		return "none"
	}

	var parts []string
	for _, entry := range optionNames {
		if o.Has(entry.option) {
			parts = append(parts, entry.name)
		}
	}

	if rest := o &^ OptionAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("OptionEnum(%d)", int(rest)))
	}

	return strings.Join(parts, "|")
}

// Parse converts a list of option names (as written in YAML overlays) into a bit set.
func Parse(names ...string) (OptionEnum, error) {
	var res OptionEnum

	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" || name == "none" {
			continue
		}

		found := false
		for _, entry := range optionNames {
			if entry.name == name {
				res |= entry.option
				found = true

				break
			}
		}

		if !found {
			return OptionNone, fmt.Errorf("unknown mapping option %q", name)
		}
	}

	return res, nil
}
