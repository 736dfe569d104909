// Package gridkit prepares float32 keys for spatial bucketing, entirely in
// place on a memory-mapped key file.
//
// The pipeline is built from small, allocation-free primitives that live in
// their own packages and are usable on their own:
//
//   - imath: rounded division, integer cube root, ceiling log2
//   - orderkey: float-to-uint32 codes whose unsigned order is the float order
//   - safemath: reciprocal without division-by-zero, sign products
//   - blockswap: exchanging equal, adjacent and disjoint blocks of a slice
//   - partition: stable partition, bucketing and bucket reordering on top of blockswap
//   - device: serial, goroutine and pooled execution of range kernels
//
// # Basic Usage
//
//	kf, err := gridkit.Create("keys.grd", n)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kf.Close()
//	copy(kf.Keys(), samples)
//
//	if err := kf.Normalize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := kf.Encode(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	plan, _ := gridkit.NewPlan(n, 64)
//	buckets, err := kf.Partition(ctx, plan)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := kf.Reorder(ctx, buckets, plan.MortonOrder()); err != nil {
//	    log.Fatal(err)
//	}
//	if err := kf.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Package Structure
//
//   - Key file: keyfile.go (Create, Open, Flush, Verify), header.go (header, footer)
//   - Transforms: transform.go (Encode, Decode, Normalize)
//   - Bucketing: grid.go (Partition, Reorder), plan.go (Plan, MortonOrder)
//   - Integrity: fingerprint.go (multiset fingerprint)
//   - Configuration: options.go (Option, With* functions)
//   - Platform: fallocate_*.go, prefault_*.go, fadvise_*.go
package gridkit
