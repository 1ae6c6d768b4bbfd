package primitive

// CategoryEnum is a bit set of conversion families a Format allows.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with possible precision loss or overflow
	CategoryTextNumber                            // number <-> string
	CategoryNumericBool                           // integer 0/1 <-> bool
	CategoryTextualBool                           // string <-> bool using the format words
	CategoryDatetime                              // string <-> time.Time using the format layout
	CategoryTimestamp                             // integer Unix seconds <-> time.Time
	CategoryDuration                              // string (2h45m) <-> time.Duration
	CategoryNanoseconds                           // integer nanoseconds <-> time.Duration
	CategorySeconds                               // float seconds <-> time.Duration
	CategoryEnumString                            // enum <-> string and enum <-> enum

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

// CategoryOf returns the category a conversion pair belongs to, or CategoryNone.
func CategoryOf(from, to KindEnum) CategoryEnum {
	switch {
	case from.IsNumber() && to.IsNumber():
		if isSafeNumber(from, to) {
			return CategorySafeNumber
		}
		return CategoryUnsafeNumber
	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber
	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool
	case pairOf(from, to, KindString, KindBool):
		return CategoryTextualBool
	case pairOf(from, to, KindString, KindTime):
		return CategoryDatetime
	case from.IsInteger() && to == KindTime, from == KindTime && to.IsInteger():
		return CategoryTimestamp
	case pairOf(from, to, KindString, KindDuration):
		return CategoryDuration
	case from == KindUint64 && to == KindDuration, from == KindDuration && to == KindUint64:
		return CategoryNone // nanoseconds do not fit both ways
	case from.IsInteger() && to == KindDuration, from == KindDuration && to.IsInteger():
		return CategoryNanoseconds
	case from.IsFloat() && to == KindDuration, from == KindDuration && to.IsFloat():
		return CategorySeconds
	case pairOf(from, to, KindString, KindPrimitiveEnum), from == KindPrimitiveEnum && to == KindPrimitiveEnum:
		return CategoryEnumString
	default:
		return CategoryNone
	}
}

// CanConvert reports whether the pair is convertible within the allowed categories.
func CanConvert(from, to KindEnum, allowed CategoryEnum) bool {
	category := CategoryOf(from, to)

	return category != CategoryNone && allowed&category != 0
}

func pairOf(from, to, a, b KindEnum) bool {
	return from == a && to == b || from == b && to == a
}

// isSafeNumber reports whether every value of from is exactly representable in to.
// int and uint count as 64 bits wide when read and 32 bits wide when written, so
// the result holds on every platform.
func isSafeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to == KindFloat64
	case to.IsFloat():
		return from.IsInteger() && width(from, true) < mantissa(to)
	case from.IsSigned():
		return to.IsSigned() && width(from, true) <= width(to, false)
	case to.IsSigned():
		return width(from, true) < width(to, false)
	default:
		return width(from, true) <= width(to, false)
	}
}

func width(k KindEnum, read bool) int {
	if k == KindInt || k == KindUint {
		if read {
			return 64
		}
		return 32
	}

	return k.Bits()
}

func mantissa(k KindEnum) int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}
