package value

import (
	"cmp"
	"math"
	"strconv"
)

// Signed is the set of signed integer types a Number can be built from.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types a Number can be built from.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Number is a signed or unsigned integer. It stores a magnitude and a sign so
// that every 64-bit value of either signedness is representable exactly.
type Number struct {
	mag    uint64
	neg    bool
	signed bool
}

// IntNumber returns a signed Number.
func IntNumber[T Signed](v T) Number {
	i := int64(v)
	if i < 0 {
		// Two's complement negation also covers math.MinInt64.
		return Number{mag: uint64(-(i + 1)) + 1, neg: true, signed: true}
	}
	return Number{mag: uint64(i), signed: true}
}

// UintNumber returns an unsigned Number.
func UintNumber[T Unsigned](v T) Number {
	return Number{mag: uint64(v)}
}

// IsNegative reports whether n < 0.
func (n Number) IsNegative() bool { return n.neg }

// IsSigned reports whether n was constructed from a signed type.
func (n Number) IsSigned() bool { return n.signed }

// Int64 returns n as an int64 and whether the conversion is exact.
func (n Number) Int64() (int64, bool) {
	if n.neg {
		if n.mag > 1<<63 {
			return 0, false
		}
		return -int64(n.mag-1) - 1, true
	}
	if n.mag > math.MaxInt64 {
		return 0, false
	}
	return int64(n.mag), true
}

// Uint64 returns n as a uint64; false when n is negative.
func (n Number) Uint64() (uint64, bool) {
	if n.neg {
		return 0, false
	}
	return n.mag, true
}

// Compare orders numbers by value regardless of signedness or width. Any
// negative number is below every non-negative one.
func (n Number) Compare(o Number) int {
	switch {
	case n.neg && !o.neg:
		return -1
	case !n.neg && o.neg:
		return 1
	case n.neg:
		return cmp.Compare(o.mag, n.mag)
	default:
		return cmp.Compare(n.mag, o.mag)
	}
}

// Equal reports numeric equality.
func (n Number) Equal(o Number) bool { return n.Compare(o) == 0 }

// Any returns n as int64 when it fits, otherwise uint64.
func (n Number) Any() any {
	if i, ok := n.Int64(); ok {
		return i
	}
	return n.mag
}

func (n Number) String() string {
	if n.neg {
		i, _ := n.Int64()
		return strconv.FormatInt(i, 10)
	}
	return strconv.FormatUint(n.mag, 10)
}
