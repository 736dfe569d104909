package blockswap

// Swapper exchanges two elements by index. It lets the block swaps move
// several parallel arrays (for example keys and their payloads) in lockstep.
type Swapper interface {
	Swap(i, j int)
}

// EqualData is Equal over a Swapper.
func EqualData(data Swapper, a, b, n int) {
	for i := 0; i < n; i++ {
		data.Swap(a+i, b+i)
	}
}

// ContiguousData is Contiguous over a Swapper.
func ContiguousData(data Swapper, a, b, c int) {
	d1, d2 := b-a, c-b
	for d1 > 0 && d2 > 0 {
		if d1 < d2 {
			EqualData(data, a, c-d1, d1)
			c -= d1
		} else {
			EqualData(data, a, b, d2)
			a += d2
		}
		d1, d2 = b-a, c-b
	}
}

// DisjointData is Disjoint over a Swapper.
func DisjointData(data Swapper, a, b, c, d int) {
	if c < b {
		a, b, c, d = c, d, a, b
	}
	d1 := b - a
	d2 := c - b
	ContiguousData(data, a, b, c)
	ContiguousData(data, c-d1, c, d)
	ContiguousData(data, a, a+d2, d-d1)
}

// Slice adapts a slice to Swapper.
type Slice[T any] []T

// Swap implements Swapper.
func (s Slice[T]) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Pair moves two slices of equal length together.
type Pair[K, V any] struct {
	Keys   []K
	Values []V
}

// Swap implements Swapper.
func (p Pair[K, V]) Swap(i, j int) {
	p.Keys[i], p.Keys[j] = p.Keys[j], p.Keys[i]
	p.Values[i], p.Values[j] = p.Values[j], p.Values[i]
}
