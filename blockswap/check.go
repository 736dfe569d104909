package blockswap

import (
	"fmt"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// CheckEqual validates the arguments of Equal for a slice of length length.
func CheckEqual(length, a, b, n int) error {
	if n < 0 || a < 0 || b < 0 || a > length-n || b > length-n {
		return fmt.Errorf("equal swap a=%d b=%d n=%d len=%d: %w", a, b, n, length, gkerrors.ErrInvalidRange)
	}
	if a < b+n && b < a+n && n > 0 {
		return fmt.Errorf("equal swap a=%d b=%d n=%d: %w", a, b, n, gkerrors.ErrOverlappingRanges)
	}
	return nil
}

// CheckContiguous validates the arguments of Contiguous.
func CheckContiguous(length, a, b, c int) error {
	if a < 0 || a > b || b > c || c > length {
		return fmt.Errorf("contiguous swap a=%d b=%d c=%d len=%d: %w", a, b, c, length, gkerrors.ErrInvalidRange)
	}
	return nil
}

// CheckDisjoint validates the arguments of Disjoint. Both block orders are
// accepted; each block must be well formed and the blocks must not overlap.
func CheckDisjoint(length, a, b, c, d int) error {
	if a < 0 || a > b || b > length || c < 0 || c > d || d > length {
		return fmt.Errorf("disjoint swap a=%d b=%d c=%d d=%d len=%d: %w", a, b, c, d, length, gkerrors.ErrInvalidRange)
	}
	if b > c && d > a {
		return fmt.Errorf("disjoint swap [%d,%d) [%d,%d): %w", a, b, c, d, gkerrors.ErrOverlappingRanges)
	}
	return nil
}

// SafeEqual validates and then performs Equal.
func SafeEqual[T any](s []T, a, b, n int) error {
	if err := CheckEqual(len(s), a, b, n); err != nil {
		return err
	}
	Equal(s, a, b, n)
	return nil
}

// SafeContiguous validates and then performs Contiguous.
func SafeContiguous[T any](s []T, a, b, c int) error {
	if err := CheckContiguous(len(s), a, b, c); err != nil {
		return err
	}
	Contiguous(s, a, b, c)
	return nil
}

// SafeDisjoint validates and then performs Disjoint.
func SafeDisjoint[T any](s []T, a, b, c, d int) error {
	if err := CheckDisjoint(len(s), a, b, c, d); err != nil {
		return err
	}
	Disjoint(s, a, b, c, d)
	return nil
}
