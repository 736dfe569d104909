package gridkit

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/tamirms/gridkit/device"
	gkerrors "github.com/tamirms/gridkit/errors"
	"github.com/tamirms/gridkit/orderkey"
)

// testDevices returns one device per backend; the key file borrows them.
func testDevices(t *testing.T) map[string]device.Device {
	t.Helper()
	pooled, err := device.NewPooled(4, 64)
	if err != nil {
		t.Fatalf("NewPooled: %v", err)
	}
	devs := map[string]device.Device{
		"serial":   device.NewSerial(),
		"parallel": device.NewParallel(4, 64),
		"pooled":   pooled,
	}
	t.Cleanup(func() {
		for _, d := range devs {
			_ = d.Close()
		}
	})
	return devs
}

func TestEncodeSortsLikeFloats(t *testing.T) {
	rng := newTestRNG(t)
	keys := randomKeys(rng, 3000, 1e6)
	keys = append(keys, 0, float32(math.Copysign(0, -1)), float32(math.Inf(1)), float32(math.Inf(-1)))
	for name, d := range testDevices(t) {
		t.Run(name, func(t *testing.T) {
			kf, _ := createFilled(t, keys, WithDevice(d))
			if err := kf.Encode(context.Background()); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			codes := kf.Ordered()
			for i, k := range keys {
				if codes[i] != orderkey.FloatToOrdered(k) {
					t.Fatalf("code %d = %#x, want %#x", i, codes[i], orderkey.FloatToOrdered(k))
				}
			}

			byCode := slices.Clone(codes)
			slices.Sort(byCode)
			byFloat := slices.Clone(keys)
			slices.Sort(byFloat)
			for i := range byCode {
				// == treats -0 and +0 as equal, so their relative order is not checked
				if orderkey.OrderedToFloat(byCode[i]) != byFloat[i] {
					t.Fatalf("sorted position %d: %v vs %v", i, orderkey.OrderedToFloat(byCode[i]), byFloat[i])
				}
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	keys := randomKeys(rng, 10000, 3)
	for name, d := range testDevices(t) {
		t.Run(name, func(t *testing.T) {
			kf, _ := createFilled(t, keys, WithDevice(d))
			ctx := context.Background()
			if err := kf.Encode(ctx); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if err := kf.Decode(ctx); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if kf.State() != StateRaw {
				t.Errorf("State = %s, want raw", kf.State())
			}
			if !slices.Equal(kf.Keys(), keys) {
				t.Error("round trip changed keys")
			}
		})
	}
}

func TestEncodeRejectsNaN(t *testing.T) {
	keys := []float32{1, 2, float32(math.NaN()), 4}
	kf, _ := createFilled(t, keys)
	err := kf.Encode(context.Background())
	if !errors.Is(err, gkerrors.ErrNaNKey) {
		t.Fatalf("expected ErrNaNKey, got %v", err)
	}
	if kf.State() != StateRaw || kf.Keys()[0] != 1 || kf.Keys()[3] != 4 {
		t.Error("failed Encode modified the file")
	}
}

func TestStateTransitions(t *testing.T) {
	kf, _ := createFilled(t, []float32{3, 1, 2})
	ctx := context.Background()

	if err := kf.Decode(ctx); !errors.Is(err, gkerrors.ErrInvalidState) {
		t.Errorf("Decode raw: expected ErrInvalidState, got %v", err)
	}
	if _, err := kf.Partition(ctx, Plan{Cells: 1, Resolution: 1}); !errors.Is(err, gkerrors.ErrInvalidState) {
		t.Errorf("Partition raw: expected ErrInvalidState, got %v", err)
	}
	if err := kf.Normalize(ctx); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := kf.Normalize(ctx); !errors.Is(err, gkerrors.ErrInvalidState) {
		t.Errorf("Normalize twice: expected ErrInvalidState, got %v", err)
	}
	if err := kf.Encode(ctx); err != nil {
		t.Fatalf("Encode normalized: %v", err)
	}
	if err := kf.Encode(ctx); !errors.Is(err, gkerrors.ErrInvalidState) {
		t.Errorf("Encode twice: expected ErrInvalidState, got %v", err)
	}
	if err := kf.Normalize(ctx); !errors.Is(err, gkerrors.ErrInvalidState) {
		t.Errorf("Normalize encoded: expected ErrInvalidState, got %v", err)
	}
	if err := kf.Decode(ctx); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kf.State() != StateNormalized || !kf.Normalized() {
		t.Errorf("Decode returned to %s, want normalized", kf.State())
	}
}

func TestNormalize(t *testing.T) {
	for name, d := range testDevices(t) {
		t.Run(name, func(t *testing.T) {
			kf, _ := createFilled(t, []float32{-2, 0, 6, 2}, WithDevice(d))
			if err := kf.Normalize(context.Background()); err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			want := []float32{0, 0.25, 1, 0.5}
			if !slices.Equal(kf.Keys(), want) {
				t.Errorf("Keys() = %v, want %v", kf.Keys(), want)
			}
		})
	}
}

func TestNormalizeRange(t *testing.T) {
	rng := newTestRNG(t)
	keys := randomKeys(rng, 20000, 3e38)
	kf, _ := createFilled(t, keys, WithDevice(device.NewParallel(4, 128)))
	defer kf.Device().Close()
	if err := kf.Normalize(context.Background()); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	lo, hi := slices.Min(kf.Keys()), slices.Max(kf.Keys())
	if lo != 0 || hi != 1 {
		t.Errorf("normalized range [%v, %v], want [0, 1]", lo, hi)
	}
	for i := range keys {
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(keys) {
				continue
			}
			if keys[i] < keys[j] && kf.Keys()[i] > kf.Keys()[j] {
				t.Fatalf("order of keys %d and %d inverted", i, j)
			}
		}
	}
}

func TestNormalizeZeroExtent(t *testing.T) {
	kf, _ := createFilled(t, []float32{7.5, 7.5, 7.5})
	if err := kf.Normalize(context.Background()); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !slices.Equal(kf.Keys(), []float32{0, 0, 0}) {
		t.Errorf("Keys() = %v, want zeros", kf.Keys())
	}
}

func TestNormalizeRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		bad  float32
		want error
	}{
		{"NaN", float32(math.NaN()), gkerrors.ErrNaNKey},
		{"Inf", float32(math.Inf(1)), gkerrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kf, _ := createFilled(t, []float32{1, tt.bad, 3})
			if err := kf.Normalize(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if kf.State() != StateRaw {
				t.Errorf("State = %s after failed Normalize", kf.State())
			}
		})
	}
}
