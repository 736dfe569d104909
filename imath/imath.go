// Package imath provides small closed-form and fixed-iteration integer
// functions used for sizing grids, chunks and bit widths in hot paths.
//
// The plain functions follow precondition contracts and never return errors.
// The Checked variants validate their input and report violations as
// errors.ErrInvalidArgument.
package imath

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// RoundDiv returns the smallest q such that q*j >= i, i.e. the ceiling of i/j
// for i >= 0 and j > 0. Behavior for negative operands is not specified.
func RoundDiv(i, j int) int {
	q := i / j
	if i%j != 0 {
		q++
	}
	return q
}

// Icbrt returns the largest r such that r*r*r <= x, for 0 <= x <= math.MaxUint32.
// Non-positive inputs return 0.
//
// The root is built 1 bit per step from 3-bit groups of x, most significant
// first: 11 steps cover bits 32..0.
func Icbrt(x int) int {
	if x <= 0 {
		return 0
	}
	rem := uint64(x)
	var y uint64
	for s := 30; s >= 0; s -= 3 {
		y <<= 1
		b := (3*y*(y+1) + 1) << s
		if rem >= b {
			rem -= b
			y++
		}
	}
	return int(y)
}

// Ilog2 returns the smallest q such that 1<<q >= x. Inputs x <= 1 return 0.
func Ilog2(x int) int {
	if x <= 1 {
		return 0
	}
	return bits.Len(uint(x - 1))
}

// CheckedRoundDiv is RoundDiv with its preconditions enforced.
func CheckedRoundDiv(i, j int) (int, error) {
	if j <= 0 {
		return 0, fmt.Errorf("round div by %d: %w", j, gkerrors.ErrInvalidArgument)
	}
	if i < 0 {
		return 0, fmt.Errorf("round div of %d: %w", i, gkerrors.ErrInvalidArgument)
	}
	return RoundDiv(i, j), nil
}

// CheckedIcbrt is Icbrt with its domain enforced.
func CheckedIcbrt(x int) (int, error) {
	if x < 0 || uint64(x) > math.MaxUint32 {
		return 0, fmt.Errorf("icbrt of %d: %w", x, gkerrors.ErrInvalidArgument)
	}
	return Icbrt(x), nil
}

// CheckedIlog2 is Ilog2 rejecting x < 1, for which no power of two is meaningful.
func CheckedIlog2(x int) (int, error) {
	if x < 1 {
		return 0, fmt.Errorf("ilog2 of %d: %w", x, gkerrors.ErrInvalidArgument)
	}
	return Ilog2(x), nil
}

// Clamp limits a to [lo, hi].
func Clamp[T cmp.Ordered](a, lo, hi T) T {
	return min(hi, max(lo, a))
}

// Swap exchanges the values behind a and b.
func Swap[T any](a, b *T) {
	*a, *b = *b, *a
}
