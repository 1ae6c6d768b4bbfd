package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-mapper/options"
)

func TestOptionEnum_String(t *testing.T) {
	tests := []struct {
		in   options.OptionEnum
		want string
	}{
		{options.OptionNone, "none"},
		{options.PreserveReferences, "preserve_references"},
		{options.AllowConvertible | options.ThrowOnUnmappedEnum, "allow_convertible|throw_on_unmapped_enum"},
		{options.OptionAll, "allow_convertible|suppress_null_warnings|preserve_references|map_enums_by_value|throw_on_unmapped_enum"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestParse(t *testing.T) {
	got, err := options.Parse("preserve_references", " Map_Enums_By_Value ", "")
	require.NoError(t, err)
	assert.True(t, got.Has(options.PreserveReferences))
	assert.True(t, got.Has(options.MapEnumsByValue))
	assert.False(t, got.Has(options.AllowConvertible))

	_, err = options.Parse("preserve")
	assert.ErrorContains(t, err, `unknown mapping option "preserve"`)
}

func TestOptionEnum_With(t *testing.T) {
	o := options.OptionNone.With(options.AllowConvertible, options.SuppressNullWarnings)
	assert.True(t, o.Has(options.AllowConvertible|options.SuppressNullWarnings))
	assert.False(t, o.Has(options.AllowConvertible|options.PreserveReferences))
}

func TestOptionEnum_Combined(t *testing.T) {
	assert.IsType(t, options.OptionEnum(0), options.OptionNone)
	assert.IsType(t, options.OptionEnum(0), options.OptionAll)

	assert.Equal(t, options.PreserveReferences, options.OptionNone.With(options.PreserveReferences))
	assert.Equal(t, options.OptionAll, options.OptionAll.With(options.MapEnumsByValue))
}
