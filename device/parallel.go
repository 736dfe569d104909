package device

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// Parallel runs each launch's chunks on fresh goroutines, at most workers at
// a time. The first failing chunk cancels the chunks that have not started.
type Parallel struct {
	workers int
	grain   int
	closed  atomic.Bool
}

// NewParallel creates a parallel device. workers <= 0 is treated as 1.
func NewParallel(workers, grain int) *Parallel {
	return &Parallel{
		workers: max(workers, 1),
		grain:   max(grain, 1),
	}
}

// Name implements Device.
func (p *Parallel) Name() string {
	return fmt.Sprintf("parallel(%d)/%s", p.workers, Detect().Target)
}

// Workers implements Device.
func (p *Parallel) Workers() int { return p.workers }

// Launch implements Device.
func (p *Parallel) Launch(ctx context.Context, n int, k Kernel) error {
	if p.closed.Load() {
		return gkerrors.ErrDeviceClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	size := chunkSize(n, p.workers, p.grain)
	if size >= n {
		return runKernel(k, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	forEachChunk(n, size, func(lo, hi int) bool {
		if gctx.Err() != nil {
			return false
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return runKernel(k, lo, hi)
		})
		return true
	})
	return g.Wait()
}

// Close implements Device.
func (p *Parallel) Close() error {
	p.closed.Store(true)
	return nil
}

// runKernel calls k and converts a panic into an error, so a failing chunk
// on another goroutine cannot take the process down without the guard seeing it.
func runKernel(k Kernel, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk [%d,%d): %v: %w", lo, hi, r, gkerrors.ErrKernelPanic)
		}
	}()
	return k(lo, hi)
}
