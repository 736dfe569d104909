package gridkit

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"path/filepath"
	"testing"
)

const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a generator seeded from the test name, so every test
// sees its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomKeys returns n finite keys spread over [-scale, scale).
func randomKeys(rng *rand.Rand, n int, scale float32) []float32 {
	keys := make([]float32, n)
	for i := range keys {
		keys[i] = (rng.Float32()*2 - 1) * scale
	}
	return keys
}

// createFilled creates a key file in a temp dir holding keys.
func createFilled(t *testing.T, keys []float32, opts ...Option) (*KeyFile, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.grd")
	kf, err := Create(path, len(keys), opts...)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { _ = kf.Close() })
	copy(kf.Keys(), keys)
	return kf, path
}
