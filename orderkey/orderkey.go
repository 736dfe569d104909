// Package orderkey maps floating-point values to unsigned integers whose
// natural ordering reproduces the floating-point ordering.
//
// For every pair of finite floats a < b, FloatToOrdered(a) < FloatToOrdered(b),
// so keys can be compared, radix-bucketed or partitioned as plain unsigned
// integers. Negative zero encodes just below positive zero. NaN inputs have no
// defined position.
package orderkey

import (
	"math"

	"github.com/tamirms/gridkit/bitcast"
)

// FloatToOrdered encodes f as an order-preserving uint32.
//
// Negative values are bit-complemented, which reverses their magnitude order;
// positive values only get their sign bit set.
func FloatToOrdered(f float32) uint32 {
	u := math.Float32bits(f)
	mask := -(u >> 31) | 0x80000000
	return u ^ mask
}

// OrderedToFloat is the exact inverse of FloatToOrdered.
func OrderedToFloat(u uint32) float32 {
	mask := ((u >> 31) - 1) | 0x80000000
	return math.Float32frombits(u ^ mask)
}

// Float64ToOrdered encodes f as an order-preserving uint64.
func Float64ToOrdered(f float64) uint64 {
	u := math.Float64bits(f)
	mask := -(u >> 63) | 0x8000000000000000
	return u ^ mask
}

// OrderedToFloat64 is the exact inverse of Float64ToOrdered.
func OrderedToFloat64(u uint64) float64 {
	mask := ((u >> 63) - 1) | 0x8000000000000000
	return math.Float64frombits(u ^ mask)
}

// EncodeSlice encodes f in place and returns the same memory viewed as
// ordered keys. f must not be used as floats until DecodeSlice is applied.
func EncodeSlice(f []float32) []uint32 {
	u := bitcast.Float32sAsUint32s(f)
	for i, v := range u {
		u[i] = v ^ (-(v >> 31) | 0x80000000)
	}
	return u
}

// DecodeSlice reverses EncodeSlice in place and returns the float view.
func DecodeSlice(u []uint32) []float32 {
	for i, v := range u {
		u[i] = v ^ (((v >> 31) - 1) | 0x80000000)
	}
	return bitcast.Uint32sAsFloat32s(u)
}
