package device

import (
	"context"
	"time"
)

// Profile runs fn and returns the elapsed wall time in milliseconds.
func Profile(fn func()) float32 {
	start := time.Now()
	fn()
	return float32(time.Since(start).Seconds() * 1000)
}

// ProfileLaunch launches k on d over [0, n) and returns the elapsed
// milliseconds together with the launch error.
func ProfileLaunch(ctx context.Context, d Device, n int, k Kernel) (float32, error) {
	var err error
	ms := Profile(func() {
		err = d.Launch(ctx, n, k)
	})
	return ms, err
}
