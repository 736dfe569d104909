// Package bitcast reinterprets the bits of values and slices without
// converting them.
//
// Slice views share memory with their argument. They are only meaningful for
// element types without pointers, and byte views assume the native
// little-endian layout of amd64 and arm64.
package bitcast

import "unsafe"

// As returns the bits of t reinterpreted as a U. Panics if the sizes differ.
func As[U, T any](t T) U {
	var u U
	if unsafe.Sizeof(u) != unsafe.Sizeof(t) {
		panic("bitcast: As: size mismatch")
	}
	return *(*U)(unsafe.Pointer(&t))
}

// Float32sAsUint32s views f as a []uint32 over the same memory.
func Float32sAsUint32s(f []float32) []uint32 {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(f))), len(f))
}

// Uint32sAsFloat32s views u as a []float32 over the same memory.
func Uint32sAsFloat32s(u []uint32) []float32 {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(u))), len(u))
}

// Float64sAsUint64s views f as a []uint64 over the same memory.
func Float64sAsUint64s(f []float64) []uint64 {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(unsafe.SliceData(f))), len(f))
}

// BytesAsFloat32s views b as len(b)/4 float32 values. b must be 4-byte aligned.
func BytesAsFloat32s(b []byte) []float32 {
	n := len(b) / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// Uint32sAsBytes views u as its raw bytes.
func Uint32sAsBytes(u []uint32) []byte {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(u))), len(u)*4)
}
