package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum is the conversion kind of a primitive type. The zero value marks
// types Convert does not handle.
type KindEnum int

const (
	_ KindEnum = iota

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer, boolean or string type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// numbers are laid out as signed, unsigned, then floats.
func (k KindEnum) IsNumber() bool   { return KindInt <= k && k <= KindFloat64 }
func (k KindEnum) IsInteger() bool  { return KindInt <= k && k <= KindUint64 }
func (k KindEnum) IsSigned() bool   { return KindInt <= k && k <= KindInt64 }
func (k KindEnum) IsUnsigned() bool { return KindUint <= k && k <= KindUint64 }
func (k KindEnum) IsFloat() bool    { return k == KindFloat32 || k == KindFloat64 }

var bits = [...]int{
	KindInt:     strconv.IntSize,
	KindInt8:    8,
	KindInt16:   16,
	KindInt32:   32,
	KindInt64:   64,
	KindUint:    strconv.IntSize,
	KindUint8:   8,
	KindUint16:  16,
	KindUint32:  32,
	KindUint64:  64,
	KindFloat32: 32,
	KindFloat64: 64,
}

// Bits is the size of a number kind on the running platform. It panics for
// other kinds.
func (k KindEnum) Bits() int {
	if !k.IsNumber() {
		panic("only number kinds have a meaningful bit size, requested for: " + k.String())
	}

	return bits[k]
}

var exactKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

// FromReflectType returns the kind of rtype, zero when Convert does not handle it.
// Named types over integers, booleans and strings are enums; named floats are not.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := exactKinds[rtype]; ok {
		return k
	}

	switch rtype.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool, reflect.String:
		return KindPrimitiveEnum
	default:
		return 0
	}
}

// IsPrimitive reports whether rtype is handled by Convert.
func IsPrimitive(rtype reflect.Type) bool {
	return FromReflectType(rtype) != 0
}
