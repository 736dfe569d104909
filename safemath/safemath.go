// Package safemath provides sign-safe floating-point helpers for hot
// numeric paths such as ray/slab tests and coordinate normalization.
package safemath

import "math"

const (
	signBit32 = 0x80000000
	signBit64 = 0x8000000000000000
)

// SafeRcp returns 1/x, or an infinity carrying the sign of x when x is zero
// (+0 gives +Inf, -0 gives -Inf).
func SafeRcp(x float32) float32 {
	if x != 0 {
		return 1 / x
	}
	return math.Float32frombits(math.Float32bits(x)&signBit32 | 0x7F800000)
}

// ProdSign returns x with the sign of x*y, without multiplying.
func ProdSign(x, y float32) float32 {
	return math.Float32frombits(math.Float32bits(x) ^ (math.Float32bits(y) & signBit32))
}

// SafeRcp64 is SafeRcp for float64.
func SafeRcp64(x float64) float64 {
	if x != 0 {
		return 1 / x
	}
	return math.Copysign(math.Inf(1), x)
}

// ProdSign64 is ProdSign for float64.
func ProdSign64(x, y float64) float64 {
	return math.Float64frombits(math.Float64bits(x) ^ (math.Float64bits(y) & signBit64))
}
