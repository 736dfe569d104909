package gridkit

import (
	"context"
	"encoding/binary"
	"math/bits"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/tamirms/gridkit/device"
)

// Fingerprint is an order-independent digest of a multiset of keys. Two
// buffers holding the same keys in any order have equal fingerprints, so it
// detects a rearrangement that lost or duplicated a key.
type Fingerprint struct {
	Sum uint64 // wrapping sum of element hashes
	Xor uint64 // xor of element hashes
	N   uint64
}

// Add folds one key into f.
func (f *Fingerprint) Add(k uint32) {
	var buf [keySize]byte
	binary.LittleEndian.PutUint32(buf[:], k)
	h := xxh3.Hash(buf[:])
	f.Sum += h
	f.Xor ^= h
	f.N++
}

// Merge folds another fingerprint into f.
func (f *Fingerprint) Merge(o Fingerprint) {
	f.Sum += o.Sum
	f.Xor ^= o.Xor
	f.N += o.N
}

// Digest packs f into the 64-bit value stored in the file footer.
func (f Fingerprint) Digest() uint64 {
	return f.Sum ^ bits.RotateLeft64(f.Xor, 31) ^ f.N*0x9E3779B97F4A7C15
}

// FingerprintOf returns the fingerprint of keys.
func FingerprintOf(keys []uint32) Fingerprint {
	var f Fingerprint
	for _, k := range keys {
		f.Add(k)
	}
	return f
}

// fingerprintOn computes the fingerprint of keys with one kernel launch.
func fingerprintOn(ctx context.Context, d device.Device, keys []uint32) (Fingerprint, error) {
	var (
		mu  sync.Mutex
		all Fingerprint
	)
	err := d.Launch(ctx, len(keys), func(lo, hi int) error {
		part := FingerprintOf(keys[lo:hi])
		mu.Lock()
		all.Merge(part)
		mu.Unlock()
		return nil
	})
	return all, err
}
