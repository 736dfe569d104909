// Package blockswap exchanges blocks of elements inside a single slice in
// place, with O(1) extra space and no allocation.
//
// Three layered operations are provided:
//
//   - Equal swaps two disjoint blocks of the same length element by element.
//   - Contiguous swaps two adjacent blocks [a,b) and [b,c), i.e. rotates
//     [a,c) left by b-a, using repeated Equal swaps.
//   - Disjoint swaps two blocks [a,b) and [c,d) separated by a gap [b,c),
//     using three Contiguous swaps. The gap moves but keeps its order.
//
// Every call is a permutation of the slice: no element is duplicated or
// lost, and the relative order inside each block is preserved.
//
// The plain functions assume valid, non-overlapping indices and panic with a
// bounds error when an index falls outside the slice. The Check* functions
// validate indices up front and the Safe* functions validate then swap.
//
// Calls are safe to run concurrently on the same slice as long as the index
// ranges they touch are disjoint.
package blockswap

// Equal swaps s[a:a+n] with s[b:b+n]. The blocks must not overlap.
// The element at offset k of one block moves to offset k of the other.
func Equal[T any](s []T, a, b, n int) {
	x := s[a : a+n]
	y := s[b : b+n]
	for i := range x {
		x[i], y[i] = y[i], x[i]
	}
}

// Contiguous swaps the adjacent blocks s[a:b] and s[b:c], with a <= b <= c.
//
// The smaller block is exchanged with the far end of the larger one, which
// puts it in its final place; the problem then shrinks to the rest of the
// larger block. Each element is moved at most once per round and the total
// work is proportional to c-a.
func Contiguous[T any](s []T, a, b, c int) {
	d1, d2 := b-a, c-b
	for d1 > 0 && d2 > 0 {
		if d1 < d2 {
			Equal(s, a, c-d1, d1)
			c -= d1
		} else {
			Equal(s, a, b, d2)
			a += d2
		}
		d1, d2 = b-a, c-b
	}
}

// Disjoint swaps s[a:b] and s[c:d], with a <= b <= c <= d. The gap s[b:c]
// ends up between the swapped blocks with its order unchanged.
//
// The blocks may also be given later-block first (c <= d <= a <= b, which
// includes every call with d < a); they are then swapped with roles exchanged,
// which produces the same result.
func Disjoint[T any](s []T, a, b, c, d int) {
	if c < b {
		a, b, c, d = c, d, a, b
	}
	d1 := b - a
	d2 := c - b
	// [A gap B] -> [gap A B] -> [gap B A] -> [B gap A]
	Contiguous(s, a, b, c)
	Contiguous(s, c-d1, c, d)
	Contiguous(s, a, a+d2, d-d1)
}
