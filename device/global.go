package device

import (
	"fmt"
	"sync/atomic"

	gkerrors "github.com/tamirms/gridkit/errors"
)

// Global is a named constant slot that kernels read while the host updates it
// between launches. Values are copied in on upload, so the caller may reuse
// its source variable afterwards.
type Global[T any] struct {
	name string
	v    atomic.Pointer[T]
}

// NewGlobal creates an empty slot.
func NewGlobal[T any](name string) *Global[T] {
	return &Global[T]{name: name}
}

// Name returns the slot name.
func (g *Global[T]) Name() string { return g.name }

// Load returns the uploaded value and whether one was uploaded.
func (g *Global[T]) Load() (T, bool) {
	p := g.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Get returns the uploaded value, or the zero value before the first upload.
func (g *Global[T]) Get() T {
	v, _ := g.Load()
	return v
}

// SetGlobal uploads a copy of *ptr into sym.
func SetGlobal[T any](sym *Global[T], ptr *T) error {
	if sym == nil {
		return fmt.Errorf("set global: nil symbol: %w", gkerrors.ErrInvalidArgument)
	}
	if ptr == nil {
		return fmt.Errorf("set global %q: nil value: %w", sym.name, gkerrors.ErrInvalidArgument)
	}
	v := *ptr
	sym.v.Store(&v)
	return nil
}

// MustSetGlobal is SetGlobal with failures routed through g.
func MustSetGlobal[T any](g *Guard, sym *Global[T], ptr *T) {
	if err := SetGlobal(sym, ptr); err != nil {
		g.fail(err, 2)
	}
}
