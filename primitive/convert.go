package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConversion = errors.New("conversion failed")
	ErrOutOfRange = errors.New("value is out of range")
	ErrNilSource  = errors.New("source value is nil")
)

var (
	stringerType  = reflect.TypeFor[fmt.Stringer]()
	validatorType = reflect.TypeFor[interface{ IsValid() bool }]()
)

// Cast converts src into dst following at most one pointer level on each side.
//
// A nil source yields the zero value of dst (nil for pointer destinations) when
// suppressNull is set, and fails with ErrNilSource otherwise.
func Cast(src reflect.Value, dst reflect.Type, f *Format, suppressNull bool) (reflect.Value, error) {
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			if suppressNull {
				return reflect.Zero(dst), nil
			}

			return reflect.Value{}, fmt.Errorf("%w: %w", ErrConversion, ErrNilSource)
		}

		src = src.Elem()
	}

	target := dst
	if dst.Kind() == reflect.Pointer {
		target = dst.Elem()
	}

	out, err := Convert(src, target, f)
	if err != nil {
		return reflect.Value{}, err
	}

	if dst.Kind() == reflect.Pointer {
		ptr := reflect.New(target)
		ptr.Elem().Set(out)

		return ptr, nil
	}

	return out, nil
}

// Convert converts a primitive value into the dst type using the format f
// (Invariant when nil). Only pairs allowed by the format categories are accepted.
func Convert(src reflect.Value, dst reflect.Type, f *Format) (reflect.Value, error) {
	f = f.orInvariant()

	srcKind, dstKind := FromReflectType(src.Type()), FromReflectType(dst)
	if srcKind == 0 || dstKind == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s is not convertible to %s", ErrConversion, src.Type(), dst)
	}

	if !CanConvert(srcKind, dstKind, f.Categories) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s is not allowed by format %s", ErrConversion, src.Type(), dst, f)
	}

	out := reflect.New(dst).Elem()

	var err error
	switch {
	case srcKind == KindPrimitiveEnum || dstKind == KindPrimitiveEnum:
		err = convertEnum(src, out, f)

	case srcKind.IsNumber() && dstKind.IsNumber():
		err = convertNumber(src, out, dstKind)
	case srcKind.IsNumber() && dstKind == KindString:
		out.SetString(formatNumber(src, srcKind, f))
	case srcKind == KindString && dstKind.IsNumber():
		err = parseNumber(src.String(), out, dstKind, f)

	case srcKind.IsInteger() && dstKind == KindBool:
		err = integerToBool(src, out)
	case srcKind == KindBool && dstKind.IsInteger():
		if src.Bool() {
			err = setSigned(out, 1, dstKind)
		} else {
			err = setSigned(out, 0, dstKind)
		}
	case srcKind == KindString && dstKind == KindBool:
		err = parseText(src.String(), out, KindBool, f)
	case srcKind == KindBool && dstKind == KindString:
		out.SetString(f.formatBool(src.Bool()))

	case srcKind == KindString && dstKind == KindTime:
		var t time.Time
		t, err = time.Parse(f.TimeLayout, strings.TrimSpace(src.String()))
		if err == nil {
			out.Set(reflect.ValueOf(t))
		}
	case srcKind == KindTime && dstKind == KindString:
		out.SetString(src.Interface().(time.Time).Format(f.TimeLayout))
	case srcKind.IsInteger() && dstKind == KindTime:
		var unix int64
		unix, err = integerValue(src)
		if err == nil {
			out.Set(reflect.ValueOf(time.Unix(unix, 0).UTC()))
		}
	case srcKind == KindTime && dstKind.IsInteger():
		err = setSigned(out, src.Interface().(time.Time).Unix(), dstKind)

	case srcKind == KindString && dstKind == KindDuration:
		var d time.Duration
		d, err = time.ParseDuration(strings.TrimSpace(src.String()))
		if err == nil {
			out.SetInt(int64(d))
		}
	case srcKind == KindDuration && dstKind == KindString:
		out.SetString(time.Duration(src.Int()).String())
	case srcKind.IsInteger() && dstKind == KindDuration:
		var ns int64
		ns, err = integerValue(src)
		if err == nil {
			out.SetInt(ns)
		}
	case srcKind == KindDuration && dstKind.IsInteger():
		err = setSigned(out, src.Int(), dstKind)
	case srcKind.IsFloat() && dstKind == KindDuration:
		seconds := src.Float() * float64(time.Second)
		if !inRange(math.MinInt64, seconds, math.Nextafter(math.MaxInt64, 0)) {
			err = ErrOutOfRange
		} else {
			out.SetInt(int64(seconds))
		}
	case srcKind == KindDuration && dstKind.IsFloat():
		out.SetFloat(time.Duration(src.Int()).Seconds())

	default:
		err = errors.New("unsupported pair")
	}

	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s: %w", ErrConversion, src.Type(), dst, err)
	}

	return out, nil
}

// inRange reports whether min <= v <= max.
func inRange(min, v, max float64) bool {
	return min <= v && v <= max
}

func convertNumber(src, out reflect.Value, dstKind KindEnum) error {
	switch {
	case src.CanInt():
		return setSigned(out, src.Int(), dstKind)
	case src.CanUint():
		return setUnsigned(out, src.Uint(), dstKind)
	default:
		return setFloat(out, src.Float(), dstKind)
	}
}

func setSigned(out reflect.Value, v int64, k KindEnum) error {
	switch {
	case k.IsSigned() || k == KindDuration:
		if out.OverflowInt(v) {
			return fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
		out.SetInt(v)
	case k.IsUnsigned():
		if v < 0 || out.OverflowUint(uint64(v)) {
			return fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
		out.SetUint(uint64(v))
	default:
		out.SetFloat(float64(v))
	}

	return nil
}

func setUnsigned(out reflect.Value, v uint64, k KindEnum) error {
	switch {
	case k.IsSigned():
		if v > math.MaxInt64 || out.OverflowInt(int64(v)) {
			return fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
		out.SetInt(int64(v))
	case k.IsUnsigned():
		if out.OverflowUint(v) {
			return fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
		out.SetUint(v)
	default:
		out.SetFloat(float64(v))
	}

	return nil
}

func setFloat(out reflect.Value, v float64, k KindEnum) error {
	if k.IsFloat() {
		if !math.IsInf(v, 0) && !math.IsNaN(v) && out.OverflowFloat(v) {
			return fmt.Errorf("%w: %g", ErrOutOfRange, v)
		}
		out.SetFloat(v)

		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %g", ErrOutOfRange, v)
	}

	t := math.Trunc(v)
	if k.IsSigned() {
		bound := math.Ldexp(1, k.Bits()-1)
		if !inRange(-bound, t, math.Nextafter(bound, 0)) {
			return fmt.Errorf("%w: %g", ErrOutOfRange, v)
		}
		out.SetInt(int64(t))

		return nil
	}

	if !inRange(0, t, math.Nextafter(math.Ldexp(1, k.Bits()), 0)) {
		return fmt.Errorf("%w: %g", ErrOutOfRange, v)
	}
	out.SetUint(uint64(t))

	return nil
}

func formatNumber(src reflect.Value, kind KindEnum, f *Format) string {
	switch {
	case src.CanInt():
		return strconv.FormatInt(src.Int(), f.IntegerBase)
	case src.CanUint():
		return strconv.FormatUint(src.Uint(), f.IntegerBase)
	default:
		return strconv.FormatFloat(src.Float(), f.FloatFormat, f.FloatPrecision, kind.Bits())
	}
}

func parseNumber(s string, out reflect.Value, kind KindEnum, f *Format) error {
	s = strings.TrimSpace(s)

	switch {
	case kind.IsSigned():
		v, err := strconv.ParseInt(s, f.IntegerBase, kind.Bits())
		if err != nil {
			return err
		}
		out.SetInt(v)
	case kind.IsUnsigned():
		v, err := strconv.ParseUint(s, f.IntegerBase, kind.Bits())
		if err != nil {
			return err
		}
		out.SetUint(v)
	default:
		v, err := strconv.ParseFloat(s, kind.Bits())
		if err != nil {
			return err
		}
		out.SetFloat(v)
	}

	return nil
}

func integerValue(src reflect.Value) (int64, error) {
	if src.CanInt() {
		return src.Int(), nil
	}

	v := src.Uint()
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}

	return int64(v), nil
}

func integerToBool(src, out reflect.Value) error {
	var zero, one bool
	if src.CanInt() {
		zero, one = src.Int() == 0, src.Int() == 1
	} else {
		zero, one = src.Uint() == 0, src.Uint() == 1
	}

	switch {
	case zero:
		out.SetBool(false)
	case one:
		out.SetBool(true)
	default:
		return fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %v", src.Interface())
	}

	return nil
}

func convertEnum(src, out reflect.Value, f *Format) error {
	srcBase, dstBase := baseKind(src.Type()), baseKind(out.Type())

	switch {
	case out.Type() == reflect.TypeFor[string]() && src.Type().Implements(stringerType):
		out.SetString(src.Interface().(fmt.Stringer).String())
	case srcBase.IsInteger() && dstBase.IsInteger():
		if err := convertNumber(src, out, dstBase); err != nil {
			return err
		}
	case srcBase == dstBase:
		out.Set(src.Convert(out.Type()))
	default:
		if err := parseText(enumText(src, srcBase, f), out, dstBase, f); err != nil {
			return err
		}
	}

	if out.Type().Implements(validatorType) && !out.Interface().(interface{ IsValid() bool }).IsValid() {
		return fmt.Errorf("%v is not a valid value for %s", src.Interface(), out.Type())
	}

	return nil
}

func enumText(src reflect.Value, base KindEnum, f *Format) string {
	if src.Type().Implements(stringerType) {
		return src.Interface().(fmt.Stringer).String()
	}

	switch {
	case base == KindString:
		return src.String()
	case base == KindBool:
		return f.formatBool(src.Bool())
	default:
		return formatNumber(src, base, f)
	}
}

func parseText(s string, out reflect.Value, base KindEnum, f *Format) error {
	switch {
	case base == KindString:
		out.SetString(s)
	case base == KindBool:
		b, ok := f.parseBool(s)
		if !ok {
			return fmt.Errorf("only strings %s/%s are allowed for bool, got: %s",
				strings.Join(f.TrueWords, ","), strings.Join(f.FalseWords, ","), s)
		}
		out.SetBool(b)
	default:
		return parseNumber(s, out, base, f)
	}

	return nil
}

func baseKind(rtype reflect.Type) KindEnum {
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	}
}
