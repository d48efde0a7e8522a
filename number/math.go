// Package number implements Lua's numeric helpers: floored division and
// modulo, logical shifts and conversions between integers, floats and
// numeric strings.
package number

import "math"

// IFloorDiv returns a // b for integers, rounding toward negative infinity.
// b must not be zero.
func IFloorDiv(a, b int64) int64 {
	if a > 0 && b > 0 || a < 0 && b < 0 || a%b == 0 {
		return a / b
	}
	return a/b - 1
}

// FFloorDiv returns a // b for floats.
func FFloorDiv(a, b float64) float64 {
	return math.Floor(a / b)
}

// IMod returns the floored remainder of a and b. b must not be zero.
func IMod(a, b int64) int64 {
	if b == -1 {
		return 0
	}
	r := a % b
	if r != 0 && (r^b) < 0 {
		r += b
	}
	return r
}

// FMod returns a - floor(a/b)*b. When b is infinite the formula would
// produce NaN, so the finite operand (same sign as b) or b itself (opposite
// sign) is returned directly.
func FMod(a, b float64) float64 {
	switch {
	case a > 0 && math.IsInf(b, 1), a < 0 && math.IsInf(b, -1):
		return a
	case a > 0 && math.IsInf(b, -1), a < 0 && math.IsInf(b, 1):
		return b
	}
	return a - math.Floor(a/b)*b
}

// ShiftLeft shifts a left by n bits. A negative n shifts right instead.
// Vacated bits are zero-filled and counts of 64 or more yield 0.
func ShiftLeft(a, n int64) int64 {
	switch {
	case n <= -64 || n >= 64:
		return 0
	case n >= 0:
		return int64(uint64(a) << uint(n))
	default:
		return int64(uint64(a) >> uint(-n))
	}
}

// ShiftRight is the logical right shift; a negative n shifts left.
func ShiftRight(a, n int64) int64 {
	if n <= -64 || n >= 64 {
		return 0
	}
	return ShiftLeft(a, -n)
}

// FloatToInteger converts f when it has an exact integer representation.
func FloatToInteger(f float64) (int64, bool) {
	if f >= -9223372036854775808.0 && f < 9223372036854775808.0 {
		if i := int64(f); float64(i) == f {
			return i, true
		}
	}
	return 0, false
}

// Int2fb encodes x as a "floating point byte" (eeeeexxx), rounding up.
func Int2fb(x int) int {
	e := 0
	if x < 8 {
		return x
	}
	for x >= (8 << 4) {
		x = (x + 0xf) >> 4
		e += 4
	}
	for x >= (8 << 1) {
		x = (x + 1) >> 1
		e++
	}
	return ((e + 1) << 3) | (x - 8)
}

// Fb2int decodes a floating point byte produced by Int2fb.
func Fb2int(x int) int {
	if x < 8 {
		return x
	}
	return ((x & 7) + 8) << uint((x>>3)-1)
}
