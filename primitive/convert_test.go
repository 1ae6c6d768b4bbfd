package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-mapper/primitive"
)

type Level int

const (
	LevelLow Level = iota + 1
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

type Code string

func (c Code) IsValid() bool { return c == "A" || c == "B" }

func TestConvert(t *testing.T) {
	t.Parallel()

	moment := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		src  any
		dst  reflect.Type
		want any
	}{
		{"int to string", 42, reflect.TypeFor[string](), "42"},
		{"string to int32", " -17 ", reflect.TypeFor[int32](), int32(-17)},
		{"float to string", 2.5, reflect.TypeFor[string](), "2.5"},
		{"string to float32", "1.25", reflect.TypeFor[float32](), float32(1.25)},
		{"int8 to int64", int8(-3), reflect.TypeFor[int64](), int64(-3)},
		{"uint to int", uint16(9), reflect.TypeFor[int](), 9},
		{"float to int truncates", 3.99, reflect.TypeFor[int](), 3},
		{"one to bool", 1, reflect.TypeFor[bool](), true},
		{"bool to uint8", true, reflect.TypeFor[uint8](), uint8(1)},
		{"yes to bool", "Yes", reflect.TypeFor[bool](), true},
		{"bool to string", false, reflect.TypeFor[string](), "false"},
		{"string to time", "2024-03-01T12:30:00Z", reflect.TypeFor[time.Time](), moment},
		{"time to string", moment, reflect.TypeFor[string](), "2024-03-01T12:30:00Z"},
		{"unix to time", int64(moment.Unix()), reflect.TypeFor[time.Time](), moment},
		{"time to unix", moment, reflect.TypeFor[int64](), moment.Unix()},
		{"string to duration", "2h45m", reflect.TypeFor[time.Duration](), 2*time.Hour + 45*time.Minute},
		{"duration to string", 90 * time.Second, reflect.TypeFor[string](), "1m30s"},
		{"nanoseconds to duration", 1500, reflect.TypeFor[time.Duration](), 1500 * time.Nanosecond},
		{"seconds to duration", 1.5, reflect.TypeFor[time.Duration](), 1500 * time.Millisecond},
		{"duration to seconds", 3 * time.Second, reflect.TypeFor[float64](), 3.0},
		{"stringer enum to string", LevelHigh, reflect.TypeFor[string](), "high"},
		{"string to valid enum", "A", reflect.TypeFor[Code](), Code("A")},
		{"enum to enum", Code("B"), reflect.TypeFor[string](), "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Convert(reflect.ValueOf(tt.src), tt.dst, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   any
		dst   reflect.Type
		isErr error
	}{
		{"overflow", 300, reflect.TypeFor[int8](), primitive.ErrOutOfRange},
		{"negative to unsigned", -1, reflect.TypeFor[uint](), primitive.ErrOutOfRange},
		{"bool from two", 2, reflect.TypeFor[bool](), primitive.ErrConversion},
		{"not a number", "abc", reflect.TypeFor[int](), primitive.ErrConversion},
		{"invalid enum", "C", reflect.TypeFor[Code](), primitive.ErrConversion},
		{"struct", struct{}{}, reflect.TypeFor[string](), primitive.ErrConversion},
		{"time to bool", time.Time{}, reflect.TypeFor[bool](), primitive.ErrConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := primitive.Convert(reflect.ValueOf(tt.src), tt.dst, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.isErr)
		})
	}
}

func TestConvert_Format(t *testing.T) {
	t.Parallel()

	hex := primitive.Invariant.Derive(primitive.Format{Name: "hex", IntegerBase: 16, TrueWords: []string{"Y"}, FalseWords: []string{"N"}})

	got, err := primitive.Convert(reflect.ValueOf(255), reflect.TypeFor[string](), hex)
	require.NoError(t, err)
	assert.Equal(t, "ff", got.Interface())

	got, err = primitive.Convert(reflect.ValueOf(true), reflect.TypeFor[string](), hex)
	require.NoError(t, err)
	assert.Equal(t, "Y", got.Interface())

	safe := primitive.Invariant.Derive(primitive.Format{Name: "safe", Categories: primitive.CategorySafeNumber})
	_, err = primitive.Convert(reflect.ValueOf(int64(1)), reflect.TypeFor[int8](), safe)
	assert.ErrorIs(t, err, primitive.ErrConversion)
	assert.ErrorContains(t, err, "not allowed by format safe")
}

func TestCast(t *testing.T) {
	t.Parallel()

	var nilInt *int
	five := 5

	t.Run("nil suppressed into value", func(t *testing.T) {
		got, err := primitive.Cast(reflect.ValueOf(nilInt), reflect.TypeFor[string](), nil, true)
		require.NoError(t, err)
		assert.Equal(t, "", got.Interface())
	})

	t.Run("nil suppressed into pointer", func(t *testing.T) {
		got, err := primitive.Cast(reflect.ValueOf(nilInt), reflect.TypeFor[*string](), nil, true)
		require.NoError(t, err)
		assert.True(t, got.IsNil())
	})

	t.Run("nil not suppressed", func(t *testing.T) {
		_, err := primitive.Cast(reflect.ValueOf(nilInt), reflect.TypeFor[string](), nil, false)
		assert.ErrorIs(t, err, primitive.ErrNilSource)
		assert.ErrorIs(t, err, primitive.ErrConversion)
	})

	t.Run("pointer to pointer", func(t *testing.T) {
		got, err := primitive.Cast(reflect.ValueOf(&five), reflect.TypeFor[*string](), nil, false)
		require.NoError(t, err)
		assert.Equal(t, "5", *got.Interface().(*string))
	})
}
