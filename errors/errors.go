// Package errors defines all exported error sentinels for the gridkit library.
//
// This is the single source of truth for error values. The root gridkit
// package and every primitive package import from here, so errors.Is checks
// work across package boundaries.
package errors

import "errors"

// Argument errors (checked primitive variants)
var (
	ErrInvalidArgument    = errors.New("gridkit: invalid argument")
	ErrInvalidRange       = errors.New("gridkit: invalid index range")
	ErrOverlappingRanges  = errors.New("gridkit: ranges overlap")
	ErrInvalidPermutation = errors.New("gridkit: order is not a permutation")
)

// Device errors
var (
	ErrDeviceClosed  = errors.New("gridkit: device is closed")
	ErrKernelPanic   = errors.New("gridkit: kernel panicked")
	ErrUnknownDevice = errors.New("gridkit: unknown device backend")
)

// Key file errors
var (
	ErrInvalidMagic    = errors.New("gridkit: invalid magic number")
	ErrInvalidVersion  = errors.New("gridkit: unsupported version")
	ErrTruncatedFile   = errors.New("gridkit: key file is truncated")
	ErrCorruptedFile   = errors.New("gridkit: key file is corrupted")
	ErrChecksumFailed  = errors.New("gridkit: key file checksum verification failed")
	ErrFileClosed      = errors.New("gridkit: key file is closed")
	ErrEmptyFile       = errors.New("gridkit: cannot create key file with zero keys")
	ErrInvalidState    = errors.New("gridkit: operation not valid in current key state")
	ErrNaNKey          = errors.New("gridkit: NaN key cannot be ordered")
	ErrBucketsMismatch = errors.New("gridkit: buckets do not describe the key region")
)

// Pipeline errors
var (
	ErrPermutationViolated = errors.New("gridkit: rearrangement did not preserve the key multiset")
	ErrInvalidPlan         = errors.New("gridkit: invalid grid plan")
)
