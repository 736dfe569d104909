package device

import (
	"context"
	"sync/atomic"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// Serial runs kernels inline on the calling goroutine.
type Serial struct {
	closed atomic.Bool
}

// NewSerial creates a serial device.
func NewSerial() *Serial {
	return &Serial{}
}

// Name implements Device.
func (s *Serial) Name() string {
	return "serial/" + Detect().Target
}

// Workers implements Device.
func (s *Serial) Workers() int { return 1 }

// Launch implements Device.
func (s *Serial) Launch(ctx context.Context, n int, k Kernel) error {
	if s.closed.Load() {
		return gkerrors.ErrDeviceClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}
	return k(0, n)
}

// Close implements Device.
func (s *Serial) Close() error {
	s.closed.Store(true)
	return nil
}
