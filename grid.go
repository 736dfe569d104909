package gridkit

import (
	"context"
	"fmt"
	"math/bits"

	gkerrors "github.com/tamirms/gridkit/errors"
	"github.com/tamirms/gridkit/partition"
)

// bucketOf maps an ordered key code uniformly onto [0, n) with the fastrange
// multiply-high. The mapping is monotone: a <= b implies
// bucketOf(a, n) <= bucketOf(b, n).
func bucketOf(code uint32, n uint32) uint32 {
	hi, _ := bits.Mul64(uint64(code)<<32, uint64(n))
	return uint32(hi)
}

// Partition groups the encoded keys into plan.Cells buckets by key range.
// Keys keep their relative order inside a bucket.
func (kf *KeyFile) Partition(ctx context.Context, plan Plan) (partition.Buckets, error) {
	if err := kf.checkOpen(); err != nil {
		return partition.Buckets{}, err
	}
	if s := kf.State(); s != StateEncoded {
		return partition.Buckets{}, fmt.Errorf("partition %s keys: %w", s, gkerrors.ErrInvalidState)
	}
	if plan.Cells < 1 || plan.Cells > MaxResolution*MaxResolution*MaxResolution {
		return partition.Buckets{}, fmt.Errorf("%d cells: %w", plan.Cells, gkerrors.ErrInvalidPlan)
	}

	codes := kf.Ordered()
	n := uint32(plan.Cells)
	var b partition.Buckets
	err := kf.rearrange(ctx, codes, func() error {
		var err error
		b, err = partition.ByBucket(ctx, codes, plan.Cells,
			func(k uint32) int { return int(bucketOf(k, n)) },
			partition.WithParallelism(kf.dev.Workers()))
		return err
	})
	if err != nil {
		return partition.Buckets{}, err
	}
	return b, nil
}

// Reorder moves whole buckets of the encoded keys so that position i holds
// the bucket that was at position order[i], and returns the new bucket
// offsets. b must describe the whole key region.
func (kf *KeyFile) Reorder(ctx context.Context, b partition.Buckets, order []int) (partition.Buckets, error) {
	if err := kf.checkOpen(); err != nil {
		return partition.Buckets{}, err
	}
	if s := kf.State(); s != StateEncoded {
		return partition.Buckets{}, fmt.Errorf("reorder %s keys: %w", s, gkerrors.ErrInvalidState)
	}
	codes := kf.Ordered()
	if b.Len() == 0 || b.Offsets[0] != 0 || b.Offsets[b.Len()] != len(codes) {
		return partition.Buckets{}, gkerrors.ErrBucketsMismatch
	}

	var out partition.Buckets
	err := kf.rearrange(ctx, codes, func() error {
		var err error
		out, err = partition.Reorder(codes, b, order)
		return err
	})
	if err != nil {
		return partition.Buckets{}, err
	}
	return out, nil
}

// rearrange runs fn, which may only permute codes. With verification on, the
// key multiset is compared before and after.
func (kf *KeyFile) rearrange(ctx context.Context, codes []uint32, fn func() error) error {
	if !kf.cfg.verify {
		return fn()
	}
	before, err := fingerprintOn(ctx, kf.dev, codes)
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	after, err := fingerprintOn(ctx, kf.dev, codes)
	if err != nil {
		return err
	}
	if before != after {
		return gkerrors.ErrPermutationViolated
	}
	return nil
}
