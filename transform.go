package gridkit

import (
	"context"
	"fmt"
	"math"
	"sync"

	gkerrors "github.com/tamirms/gridkit/errors"
	"github.com/tamirms/gridkit/orderkey"
	"github.com/tamirms/gridkit/safemath"
)

// Encode converts the float keys into order-preserving uint32 codes in place.
// NaN keys have no place in the order and are rejected before anything is
// written.
func (kf *KeyFile) Encode(ctx context.Context) error {
	if err := kf.checkOpen(); err != nil {
		return err
	}
	if s := kf.State(); s == StateEncoded {
		return fmt.Errorf("encode %s keys: %w", s, gkerrors.ErrInvalidState)
	}
	keys := kf.Keys()
	if err := kf.dev.Launch(ctx, len(keys), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if math.IsNaN(float64(keys[i])) {
				return fmt.Errorf("key %d: %w", i, gkerrors.ErrNaNKey)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := kf.dev.Launch(ctx, len(keys), func(lo, hi int) error {
		orderkey.EncodeSlice(keys[lo:hi])
		return nil
	}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	kf.setState(StateEncoded)
	return nil
}

// Decode converts the codes back to the float keys they came from.
func (kf *KeyFile) Decode(ctx context.Context) error {
	if err := kf.checkOpen(); err != nil {
		return err
	}
	if s := kf.State(); s != StateEncoded {
		return fmt.Errorf("decode %s keys: %w", s, gkerrors.ErrInvalidState)
	}
	codes := kf.Ordered()
	if err := kf.dev.Launch(ctx, len(codes), func(lo, hi int) error {
		orderkey.DecodeSlice(codes[lo:hi])
		return nil
	}); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if kf.Normalized() {
		kf.setState(StateNormalized)
	} else {
		kf.setState(StateRaw)
	}
	return nil
}

// Normalize maps raw keys affinely onto [0, 1]: the minimum goes to 0 and
// the maximum to 1. If all keys are equal every key becomes 0. Keys must be
// finite.
func (kf *KeyFile) Normalize(ctx context.Context) error {
	if err := kf.checkOpen(); err != nil {
		return err
	}
	if s := kf.State(); s != StateRaw {
		return fmt.Errorf("normalize %s keys: %w", s, gkerrors.ErrInvalidState)
	}
	keys := kf.Keys()

	lo, hi, err := extent(ctx, kf, keys)
	if err != nil {
		return err
	}
	scale := safemath.SafeRcp64(hi - lo)
	if math.IsInf(scale, 0) {
		scale = 0 // zero extent
	}

	if err := kf.dev.Launch(ctx, len(keys), func(a, b int) error {
		for i := a; i < b; i++ {
			keys[i] = float32(min((float64(keys[i])-lo)*scale, 1))
		}
		return nil
	}); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	kf.header.Flags |= flagNormalized
	kf.setState(StateNormalized)
	return nil
}

// extent returns the smallest and largest key.
func extent(ctx context.Context, kf *KeyFile, keys []float32) (lo, hi float64, err error) {
	var mu sync.Mutex
	lo, hi = math.Inf(1), math.Inf(-1)
	err = kf.dev.Launch(ctx, len(keys), func(a, b int) error {
		cmin, cmax := math.Inf(1), math.Inf(-1)
		for i := a; i < b; i++ {
			v := float64(keys[i])
			switch {
			case math.IsNaN(v):
				return fmt.Errorf("key %d: %w", i, gkerrors.ErrNaNKey)
			case math.IsInf(v, 0):
				return fmt.Errorf("key %d is infinite: %w", i, gkerrors.ErrInvalidArgument)
			}
			cmin, cmax = min(cmin, v), max(cmax, v)
		}
		mu.Lock()
		lo, hi = min(lo, cmin), max(hi, cmax)
		mu.Unlock()
		return nil
	})
	return lo, hi, err
}
