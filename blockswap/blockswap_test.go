package blockswap

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"slices"
	"testing"

	gkerrors "github.com/tamirms/gridkit/errors"
)

const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// seq returns [0, 1, ..., n-1]; distinct values make positions traceable.
func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// referenceDisjoint builds the expected result of swapping [a,b) and [c,d)
// with a <= b <= c <= d by concatenation.
func referenceDisjoint(s []int, a, b, c, d int) []int {
	out := slices.Clone(s[:a])
	out = append(out, s[c:d]...)
	out = append(out, s[b:c]...)
	out = append(out, s[a:b]...)
	return append(out, s[d:]...)
}

func TestEqualExample(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6}
	Equal(s, 0, 3, 3)
	if want := []int{4, 5, 6, 1, 2, 3}; !slices.Equal(s, want) {
		t.Errorf("Equal = %v, want %v", s, want)
	}
}

func TestEqualPreservesOffsets(t *testing.T) {
	s := seq(10)
	Equal(s, 7, 1, 3)
	if want := []int{0, 7, 8, 9, 4, 5, 6, 1, 2, 3}; !slices.Equal(s, want) {
		t.Errorf("Equal = %v, want %v", s, want)
	}
}

func TestEqualZeroLength(t *testing.T) {
	s := seq(4)
	Equal(s, 1, 3, 0)
	if !slices.Equal(s, seq(4)) {
		t.Errorf("zero-length Equal changed slice: %v", s)
	}
}

func TestContiguousExample(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	Contiguous(s, 0, 2, 5)
	if want := []int{3, 4, 5, 1, 2}; !slices.Equal(s, want) {
		t.Errorf("Contiguous = %v, want %v", s, want)
	}
}

// TestContiguousExhaustive checks every (a, b, c) on a small slice against
// a concatenation reference.
func TestContiguousExhaustive(t *testing.T) {
	const n = 12
	for a := 0; a <= n; a++ {
		for b := a; b <= n; b++ {
			for c := b; c <= n; c++ {
				s := seq(n)
				Contiguous(s, a, b, c)
				want := referenceDisjoint(seq(n), a, b, b, c)
				if !slices.Equal(s, want) {
					t.Fatalf("Contiguous(%d,%d,%d) = %v, want %v", a, b, c, s, want)
				}
			}
		}
	}
}

func TestDisjointExample(t *testing.T) {
	s := []int{1, 2, 10, 11, 12, 7, 8, 9}
	// swap [1,2] and [7,8,9] around the gap [10,11,12]
	Disjoint(s, 0, 2, 5, 8)
	if want := []int{7, 8, 9, 10, 11, 12, 1, 2}; !slices.Equal(s, want) {
		t.Errorf("Disjoint = %v, want %v", s, want)
	}
}

func TestDisjointExhaustive(t *testing.T) {
	const n = 10
	for a := 0; a <= n; a++ {
		for b := a; b <= n; b++ {
			for c := b; c <= n; c++ {
				for d := c; d <= n; d++ {
					s := seq(n)
					Disjoint(s, a, b, c, d)
					want := referenceDisjoint(seq(n), a, b, c, d)
					if !slices.Equal(s, want) {
						t.Fatalf("Disjoint(%d,%d,%d,%d) = %v, want %v", a, b, c, d, s, want)
					}
				}
			}
		}
	}
}

// TestDisjointReversedOrder covers the later-block-first argument order,
// including every d < a input, and checks it equals the forward call.
func TestDisjointReversedOrder(t *testing.T) {
	const n = 10
	for c := 0; c <= n; c++ {
		for d := c; d <= n; d++ {
			for a := d; a <= n; a++ {
				for b := a; b <= n; b++ {
					s := seq(n)
					Disjoint(s, a, b, c, d)
					want := referenceDisjoint(seq(n), c, d, a, b)
					if !slices.Equal(s, want) {
						t.Fatalf("Disjoint(%d,%d,%d,%d) = %v, want %v", a, b, c, d, s, want)
					}
				}
			}
		}
	}
}

// TestPermutationInvariant runs random valid calls on random data and checks
// the multiset of values is unchanged.
func TestPermutationInvariant(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 2000

	for iter := 0; iter < iterations; iter++ {
		n := rng.IntN(200) + 1
		s := make([]uint32, n)
		for i := range s {
			s[i] = rng.Uint32N(16)
		}
		before := slices.Sorted(slices.Values(s))

		idx := make([]int, 4)
		for i := range idx {
			idx[i] = rng.IntN(n + 1)
		}
		slices.Sort(idx)

		switch iter % 3 {
		case 0:
			size := min(idx[1]-idx[0], n-idx[2])
			Equal(s, idx[0], idx[2], size)
		case 1:
			Contiguous(s, idx[0], idx[1], idx[3])
		case 2:
			Disjoint(s, idx[0], idx[1], idx[2], idx[3])
		}

		after := slices.Sorted(slices.Values(s))
		if !slices.Equal(before, after) {
			t.Fatalf("iter %d: multiset changed by op %d with %v", iter, iter%3, idx)
		}
	}
}

// TestDataVariantsMatchSlice checks the Swapper-based functions produce the
// same permutation as the slice functions and keep paired arrays aligned.
func TestDataVariantsMatchSlice(t *testing.T) {
	rng := newTestRNG(t)
	for iter := 0; iter < 500; iter++ {
		n := rng.IntN(64) + 1
		idx := []int{rng.IntN(n + 1), rng.IntN(n + 1), rng.IntN(n + 1), rng.IntN(n + 1)}
		slices.Sort(idx)

		want := seq(n)
		Disjoint(want, idx[0], idx[1], idx[2], idx[3])

		keys := seq(n)
		vals := make([]string, n)
		for i := range vals {
			vals[i] = string(rune('a' + i%26))
		}
		DisjointData(Pair[int, string]{Keys: keys, Values: vals}, idx[0], idx[1], idx[2], idx[3])
		if !slices.Equal(keys, want) {
			t.Fatalf("iter %d: DisjointData keys = %v, want %v", iter, keys, want)
		}
		for i, k := range keys {
			if vals[i] != string(rune('a'+k%26)) {
				t.Fatalf("iter %d: value at %d detached from key %d", iter, i, k)
			}
		}

		got := seq(n)
		ContiguousData(Slice[int](got), idx[0], idx[1], idx[3])
		want = seq(n)
		Contiguous(want, idx[0], idx[1], idx[3])
		if !slices.Equal(got, want) {
			t.Fatalf("iter %d: ContiguousData = %v, want %v", iter, got, want)
		}
	}
}

func TestEqualData(t *testing.T) {
	s := Slice[int]{1, 2, 3, 4, 5, 6}
	EqualData(s, 0, 3, 3)
	if want := []int{4, 5, 6, 1, 2, 3}; !slices.Equal(s, want) {
		t.Errorf("EqualData = %v, want %v", s, want)
	}
}

func TestCheckEqual(t *testing.T) {
	tests := []struct {
		name            string
		length, a, b, n int
		want            error
	}{
		{"valid", 6, 0, 3, 3, nil},
		{"empty", 0, 0, 0, 0, nil},
		{"past end", 6, 0, 4, 3, gkerrors.ErrInvalidRange},
		{"negative index", 6, -1, 3, 2, gkerrors.ErrInvalidRange},
		{"negative length", 6, 0, 3, -1, gkerrors.ErrInvalidRange},
		{"overlap", 6, 0, 2, 3, gkerrors.ErrOverlappingRanges},
		{"same block", 6, 1, 1, 2, gkerrors.ErrOverlappingRanges},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEqual(tt.length, tt.a, tt.b, tt.n)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("CheckEqual = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckContiguous(t *testing.T) {
	tests := []struct {
		name            string
		length, a, b, c int
		want            error
	}{
		{"valid", 5, 0, 2, 5, nil},
		{"degenerate", 5, 2, 2, 2, nil},
		{"unordered", 5, 3, 2, 5, gkerrors.ErrInvalidRange},
		{"past end", 5, 0, 2, 6, gkerrors.ErrInvalidRange},
		{"negative", 5, -1, 2, 3, gkerrors.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckContiguous(tt.length, tt.a, tt.b, tt.c)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("CheckContiguous = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckDisjoint(t *testing.T) {
	tests := []struct {
		name               string
		length, a, b, c, d int
		want               error
	}{
		{"forward", 8, 0, 2, 5, 8, nil},
		{"reversed", 8, 5, 8, 0, 2, nil},
		{"adjacent reversed", 8, 4, 8, 0, 4, nil},
		{"empty blocks", 8, 3, 3, 3, 3, nil},
		{"overlap", 8, 0, 4, 2, 6, gkerrors.ErrOverlappingRanges},
		{"nested", 8, 0, 8, 2, 3, gkerrors.ErrOverlappingRanges},
		{"malformed block", 8, 3, 1, 5, 6, gkerrors.ErrInvalidRange},
		{"past end", 8, 0, 2, 5, 9, gkerrors.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDisjoint(tt.length, tt.a, tt.b, tt.c, tt.d)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("CheckDisjoint = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSafeVariants(t *testing.T) {
	s := seq(6)
	if err := SafeEqual(s, 0, 2, 3); !errors.Is(err, gkerrors.ErrOverlappingRanges) {
		t.Errorf("SafeEqual overlap: got %v", err)
	}
	if !slices.Equal(s, seq(6)) {
		t.Errorf("rejected SafeEqual modified slice: %v", s)
	}
	if err := SafeEqual(s, 0, 3, 3); err != nil {
		t.Fatalf("SafeEqual: %v", err)
	}
	if err := SafeContiguous(s, 0, 3, 7); !errors.Is(err, gkerrors.ErrInvalidRange) {
		t.Errorf("SafeContiguous past end: got %v", err)
	}
	if err := SafeContiguous(s, 0, 3, 6); err != nil {
		t.Fatalf("SafeContiguous: %v", err)
	}
	if !slices.Equal(s, seq(6)) {
		t.Errorf("Equal then Contiguous by half should restore order, got %v", s)
	}
	if err := SafeDisjoint(s, 4, 6, 0, 1); err != nil {
		t.Fatalf("SafeDisjoint: %v", err)
	}
	if want := []int{4, 5, 1, 2, 3, 0}; !slices.Equal(s, want) {
		t.Errorf("SafeDisjoint = %v, want %v", s, want)
	}
}

func BenchmarkContiguous(b *testing.B) {
	s := make([]uint32, 1<<16)
	b.SetBytes(int64(len(s) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Contiguous(s, 0, 12345, len(s))
	}
}

func BenchmarkDisjoint(b *testing.B) {
	s := make([]uint32, 1<<16)
	b.SetBytes(int64(len(s) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Disjoint(s, 100, 5000, 40000, 60000)
	}
}
