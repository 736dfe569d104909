// Package device decides where kernels run. The numeric and block-swap
// primitives never depend on it; callers hand a Device a Kernel and a range,
// and the Device splits the range into disjoint chunks and runs them.
//
// The package also carries the infrastructure around kernel execution:
// elapsed-time measurement (Profile), a fail-fast call guard (Guard) and
// named constant slots that kernels read (Global).
//
// Backends:
//
//   - BackendSerial runs the whole range inline on the calling goroutine.
//   - BackendParallel runs chunks on goroutines bounded by an errgroup limit.
//   - BackendPooled runs chunks on a persistent ants pool that is reused
//     across launches.
package device

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	gkerrors "github.com/tamirms/gridkit/errors"
	"github.com/tamirms/gridkit/imath"
)

// Kernel processes the half-open index range [lo, hi). Kernels launched
// together always receive disjoint ranges.
type Kernel func(lo, hi int) error

// Device runs kernels over index ranges.
type Device interface {
	// Name identifies the backend and the detected CPU target.
	Name() string
	// Workers is the maximum number of chunks run at once.
	Workers() int
	// Launch runs k over [0, n) and returns the first kernel error.
	// It returns once every started chunk has finished.
	Launch(ctx context.Context, n int, k Kernel) error
	// Close releases backend resources. Launch fails after Close.
	Close() error
}

// Backend selects a Device implementation.
type Backend int

const (
	// BackendAuto picks serial for one worker and parallel otherwise.
	BackendAuto Backend = iota
	BackendSerial
	BackendParallel
	BackendPooled
)

// String returns a human-readable name for the backend.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendSerial:
		return "serial"
	case BackendParallel:
		return "parallel"
	case BackendPooled:
		return "pooled"
	default:
		return "unknown"
	}
}

// ParseBackend maps a backend name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "", "auto":
		return BackendAuto, nil
	case "serial":
		return BackendSerial, nil
	case "parallel":
		return BackendParallel, nil
	case "pooled":
		return BackendPooled, nil
	}
	return BackendAuto, fmt.Errorf("backend %q: %w", name, gkerrors.ErrUnknownDevice)
}

const (
	// defaultGrain is the smallest chunk handed to a kernel. Below this the
	// scheduling cost outweighs the work for element-wise kernels.
	defaultGrain = 4096

	// serialEnv forces BackendSerial regardless of options.
	serialEnv = "GRIDKIT_SERIAL"
)

// Option configures New.
type Option func(*config)

type config struct {
	workers int
	grain   int
	backend Backend
}

func defaultConfig() *config {
	return &config{
		workers: runtime.GOMAXPROCS(0),
		grain:   defaultGrain,
	}
}

// WithWorkers sets the number of concurrent chunks. n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.workers = n
	}
}

// WithGrain sets the minimum chunk size.
func WithGrain(n int) Option {
	return func(c *config) {
		c.grain = max(n, 1)
	}
}

// WithBackend selects the backend.
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// SerialEnv reports whether GRIDKIT_SERIAL forces serial execution.
func SerialEnv() bool {
	val := os.Getenv(serialEnv)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// New creates a Device.
func New(opts ...Option) (Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	backend := cfg.backend
	if SerialEnv() {
		backend = BackendSerial
	}
	if backend == BackendAuto {
		backend = BackendParallel
		if cfg.workers == 1 {
			backend = BackendSerial
		}
	}

	switch backend {
	case BackendSerial:
		return NewSerial(), nil
	case BackendParallel:
		return NewParallel(cfg.workers, cfg.grain), nil
	case BackendPooled:
		return NewPooled(cfg.workers, cfg.grain)
	}
	return nil, fmt.Errorf("backend %d: %w", backend, gkerrors.ErrUnknownDevice)
}

// chunkSize returns the chunk length for n items over workers, never below grain.
func chunkSize(n, workers, grain int) int {
	if n <= 0 {
		return 1
	}
	return max(grain, imath.RoundDiv(n, max(workers, 1)))
}

// forEachChunk calls fn for consecutive chunks of [0, n).
func forEachChunk(n, size int, fn func(lo, hi int) bool) {
	for lo := 0; lo < n; lo += size {
		if !fn(lo, min(lo+size, n)) {
			return
		}
	}
}
