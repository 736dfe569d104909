package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// Pooled runs chunks on a persistent ants goroutine pool. Workers are created
// once and reused by every launch, which avoids per-launch goroutine spawning
// when many small kernels run back to back.
type Pooled struct {
	pool  *ants.Pool
	grain int
}

// NewPooled creates a pooled device with workers persistent goroutines.
func NewPooled(workers, grain int) (*Pooled, error) {
	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pooled{pool: pool, grain: max(grain, 1)}, nil
}

// Name implements Device.
func (p *Pooled) Name() string {
	return fmt.Sprintf("pooled(%d)/%s", p.pool.Cap(), Detect().Target)
}

// Workers implements Device.
func (p *Pooled) Workers() int { return p.pool.Cap() }

// Launch implements Device.
func (p *Pooled) Launch(ctx context.Context, n int, k Kernel) error {
	if p.pool.IsClosed() {
		return gkerrors.ErrDeviceClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	size := chunkSize(n, p.pool.Cap(), p.grain)
	forEachChunk(n, size, func(lo, hi int) bool {
		if ctx.Err() != nil {
			return false
		}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := runKernel(k, lo, hi); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				err = gkerrors.ErrDeviceClosed
			}
			fail(err)
			return false
		}
		return true
	})
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	// Parent cancellation stops dispatch without a kernel error.
	return context.Cause(ctx)
}

// Close implements Device.
func (p *Pooled) Close() error {
	p.pool.Release()
	return nil
}
