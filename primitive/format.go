package primitive

import (
	"strings"
	"time"
)

// Format describes how textual and numeric representations are produced and parsed
// during a convertible cast. A rule may bind one default Format and one Format per
// concrete field type pair.
type Format struct {
	// Name is used in plan descriptions and diagnostics.
	Name string
	// TimeLayout is the layout for time.Time <-> string conversions.
	TimeLayout string
	// FloatFormat and FloatPrecision are passed to strconv.FormatFloat.
	FloatFormat    byte
	FloatPrecision int
	// IntegerBase is used both for formatting and parsing integers.
	IntegerBase int
	// TrueWords and FalseWords are accepted when parsing booleans, the first word is used when formatting.
	TrueWords  []string
	FalseWords []string
	// Categories limits the allowed conversions.
	Categories CategoryEnum
}

// Invariant is the culture-neutral default format.
var Invariant = &Format{
	Name:           "invariant",
	TimeLayout:     time.RFC3339Nano,
	FloatFormat:    'f',
	FloatPrecision: -1,
	IntegerBase:    10,
	TrueWords:      []string{"true", "yes", "on"},
	FalseWords:     []string{"false", "no", "off"},
	Categories:     CategoryAll,
}

// Derive returns a copy of f with the non-zero fields of patch applied.
func (f *Format) Derive(patch Format) *Format {
	res := *f.orInvariant()

	if patch.Name != "" {
		res.Name = patch.Name
	}
	if patch.TimeLayout != "" {
		res.TimeLayout = patch.TimeLayout
	}
	if patch.FloatFormat != 0 {
		res.FloatFormat = patch.FloatFormat
		res.FloatPrecision = patch.FloatPrecision
	}
	if patch.IntegerBase != 0 {
		res.IntegerBase = patch.IntegerBase
	}
	if len(patch.TrueWords) > 0 {
		res.TrueWords = patch.TrueWords
	}
	if len(patch.FalseWords) > 0 {
		res.FalseWords = patch.FalseWords
	}
	if patch.Categories != CategoryNone {
		res.Categories = patch.Categories
	}

	return &res
}

func (f *Format) String() string {
	if f == nil {
		return Invariant.Name
	}

	return f.Name
}

func (f *Format) orInvariant() *Format {
	if f == nil {
		return Invariant
	}

	return f
}

func (f *Format) parseBool(s string) (value, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, w := range f.TrueWords {
		if s == w {
			return true, true
		}
	}

	for _, w := range f.FalseWords {
		if s == w {
			return false, true
		}
	}

	return false, false
}

func (f *Format) formatBool(b bool) string {
	words := f.FalseWords
	if b {
		words = f.TrueWords
	}

	if len(words) == 0 {
		if b {
			return "true"
		}

		return "false"
	}

	return words[0]
}
