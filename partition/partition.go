// Package partition rearranges key buffers in place using the block swaps
// from package blockswap: a stable rotation-based partition, bucketing by a
// monotone bucket function, and whole-bucket reordering.
//
// Nothing here allocates per element; the only allocations are the bucket
// offset tables.
package partition

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/gridkit/blockswap"
	gkerrors "github.com/tamirms/gridkit/errors"
)

// Buckets describes a bucketed buffer: bucket i occupies
// [Offsets[i], Offsets[i+1]). len(Offsets) is the bucket count plus one.
type Buckets struct {
	Offsets []int
}

// Len returns the number of buckets.
func (b Buckets) Len() int {
	if len(b.Offsets) == 0 {
		return 0
	}
	return len(b.Offsets) - 1
}

// Bounds returns the range of bucket i.
func (b Buckets) Bounds(i int) (lo, hi int) {
	return b.Offsets[i], b.Offsets[i+1]
}

// Size returns the number of elements in bucket i.
func (b Buckets) Size(i int) int {
	return b.Offsets[i+1] - b.Offsets[i]
}

// Total returns the number of elements covered by all buckets.
func (b Buckets) Total() int {
	if len(b.Offsets) == 0 {
		return 0
	}
	return b.Offsets[len(b.Offsets)-1] - b.Offsets[0]
}

// leafSize is the range length below which Stable switches from halving to a
// run-merging pass over single elements.
const leafSize = 16

// Stable reorders s so that elements satisfying pred come first, keeping the
// relative order within both groups. It returns the number of elements that
// satisfy pred. O(n log n) element moves, O(log n) stack.
func Stable[T any](s []T, pred func(T) bool) int {
	if len(s) <= leafSize {
		return stableLeaf(s, pred)
	}
	mid := len(s) / 2
	l := Stable(s[:mid], pred)
	r := Stable(s[mid:], pred)
	// [T0 F0 | T1 F1] -> [T0 T1 F0 F1]
	blockswap.Contiguous(s, l, mid, mid+r)
	return l + r
}

// stableLeaf grows the partitioned prefix one element at a time, rotating each
// run of accepted elements past the rejected block in front of it.
func stableLeaf[T any](s []T, pred func(T) bool) int {
	n := 0
	for i := 0; i < len(s); {
		if !pred(s[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && pred(s[j]) {
			j++
		}
		blockswap.Contiguous(s, n, i, j)
		n += j - i
		i = j
	}
	return n
}

// Option configures ByBucket.
type Option func(*config)

type config struct {
	parallelism int
	minParallel int
}

// WithParallelism bounds the number of sub-ranges partitioned concurrently.
// Values <= 1 partition on the calling goroutine only.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

// WithMinParallelRange sets the smallest sub-range handed to another goroutine.
func WithMinParallelRange(n int) Option {
	return func(c *config) {
		c.minParallel = max(n, 1)
	}
}

// ByBucket stably groups s into n buckets, where bucketOf maps a key to
// [0, n) and must be monotone in the key's bucket order (bucket ids only;
// keys inside a bucket keep their input order).
//
// The bucket range is split in half recursively; each split is a Stable
// partition of a disjoint sub-range, so the two halves of every split can be
// processed concurrently.
func ByBucket[T any](ctx context.Context, s []T, n int, bucketOf func(T) int, opts ...Option) (Buckets, error) {
	if n < 1 {
		return Buckets{}, fmt.Errorf("bucket count %d: %w", n, gkerrors.ErrInvalidArgument)
	}
	cfg := &config{minParallel: 1 << 14}
	for _, opt := range opts {
		opt(cfg)
	}

	offsets := make([]int, n+1)
	offsets[n] = len(s)

	p := &splitter[T]{bucketOf: bucketOf, offsets: offsets, cfg: cfg}
	if cfg.parallelism > 1 {
		p.g, p.ctx = errgroup.WithContext(ctx)
		p.g.SetLimit(cfg.parallelism)
	} else {
		p.ctx = ctx
	}

	err := p.split(s, 0, 0, n)
	if p.g != nil {
		// a worker's error is the root cause of any cancellation seen inline
		if werr := p.g.Wait(); werr != nil {
			err = werr
		}
	}
	if err != nil {
		return Buckets{}, err
	}
	return Buckets{Offsets: offsets}, nil
}

type splitter[T any] struct {
	bucketOf func(T) int
	offsets  []int
	cfg      *config
	g        *errgroup.Group
	ctx      context.Context
}

// split partitions s (which starts at absolute index base) holding buckets
// [bLo, bHi). Every interior boundary is written by exactly one split.
func (p *splitter[T]) split(s []T, base, bLo, bHi int) error {
	for bHi-bLo > 1 {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		mid := bLo + (bHi-bLo)/2
		m := Stable(s, func(k T) bool { return p.bucketOf(k) < mid })
		p.offsets[mid] = base + m

		left, right := s[:m], s[m:]
		lo, hi, at := bLo, mid, base
		spawned := false
		if p.g != nil && len(left) >= p.cfg.minParallel {
			spawned = p.g.TryGo(func() error { return p.split(left, at, lo, hi) })
		}
		if !spawned {
			if err := p.split(left, at, lo, hi); err != nil {
				return err
			}
		}
		// continue with the right half on this goroutine
		s, base, bLo = right, base+m, mid
	}
	return nil
}

// Reorder moves whole buckets so that position i holds the bucket that was at
// position order[i]. Buckets keep their contents and internal order. It returns
// the offsets of the buckets in their new positions.
//
// Each misplaced bucket is brought into place with a single disjoint block
// swap, so at most n-1 swaps run. A swap also shifts every bucket between the
// two, so the cost grows with buckets times elements; keep bucket counts
// coarse.
func Reorder[T any](s []T, b Buckets, order []int) (Buckets, error) {
	n := b.Len()
	if len(order) != n {
		return Buckets{}, fmt.Errorf("order has %d entries for %d buckets: %w", len(order), n, gkerrors.ErrInvalidPermutation)
	}
	if n == 0 {
		return Buckets{}, nil
	}
	if b.Offsets[0] < 0 || b.Offsets[n] > len(s) {
		return Buckets{}, fmt.Errorf("offsets [%d,%d) for %d elements: %w", b.Offsets[0], b.Offsets[n], len(s), gkerrors.ErrInvalidRange)
	}
	for i := 0; i < n; i++ {
		if b.Offsets[i] > b.Offsets[i+1] {
			return Buckets{}, fmt.Errorf("bucket %d has negative size: %w", i, gkerrors.ErrInvalidRange)
		}
	}

	// at[p] = original id of the bucket now at position p; pos is its inverse.
	at := make([]int, n)
	pos := make([]int, n)
	seen := make([]bool, n)
	for i, id := range order {
		if id < 0 || id >= n || seen[id] {
			return Buckets{}, fmt.Errorf("entry %d = %d: %w", i, id, gkerrors.ErrInvalidPermutation)
		}
		seen[id] = true
		at[i] = i
		pos[i] = i
	}

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = b.Size(i)
	}
	off := make([]int, n+1)
	copy(off, b.Offsets)

	for i := 0; i < n; i++ {
		j := pos[order[i]]
		if j == i {
			continue
		}
		blockswap.Disjoint(s, off[i], off[i+1], off[j], off[j+1])

		// positions i and j trade buckets; the ones between shift by the size
		// difference but keep their order
		at[i], at[j] = at[j], at[i]
		pos[at[i]], pos[at[j]] = i, j
		for k := i; k <= j; k++ {
			off[k+1] = off[k] + sizes[at[k]]
		}
	}
	return Buckets{Offsets: off}, nil
}
