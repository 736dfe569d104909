// Gridbench measures the gridkit key pipeline on a memory-mapped key file:
// normalize, encode, partition into a cubic grid, reorder the cells along a
// Morton curve, and checksum.
//
// Usage:
//
//	go run ./cmd/gridbench -keys 4000000 -workers 8 -backend pooled
//
// Flags:
//
//	-keys        Number of keys (default: 1,000,000)
//	-workers     Number of device workers (default: GOMAXPROCS)
//	-backend     Device backend: auto, serial, parallel or pooled (default: auto)
//	-density     Target keys per grid cell (default: 4096)
//	-dir         Directory for the key file (default: a temp dir)
//	-verify      Check the key multiset around every rearranging step
//	-cpuprofile  Write a CPU profile of the pipeline phases
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/spaolacci/murmur3"

	"github.com/tamirms/gridkit"
	"github.com/tamirms/gridkit/device"
	"github.com/tamirms/gridkit/partition"
)

func main() {
	keysFlag := flag.Int("keys", 1_000_000, "number of keys")
	workersFlag := flag.Int("workers", runtime.GOMAXPROCS(0), "number of device workers")
	backendFlag := flag.String("backend", "auto", "device backend: auto, serial, parallel or pooled")
	densityFlag := flag.Int("density", 4096, "target keys per grid cell")
	dirFlag := flag.String("dir", "", "directory for the key file (default: temp dir)")
	verifyFlag := flag.Bool("verify", false, "check the key multiset around every rearranging step")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (pipeline phases only)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(log, config{
		keys:       *keysFlag,
		workers:    *workersFlag,
		backend:    *backendFlag,
		density:    *densityFlag,
		dir:        *dirFlag,
		verify:     *verifyFlag,
		cpuprofile: *cpuprofile,
	}); err != nil {
		log.Error().Err(err).Msg("gridbench failed")
		os.Exit(1)
	}
}

type config struct {
	keys, workers, density int
	backend, dir           string
	verify                 bool
	cpuprofile             string
}

// timings holds the elapsed milliseconds of each phase.
type timings struct {
	fill, baseline, normalize, encode, partition, reorder, flush, verify float32
}

func run(log zerolog.Logger, cfg config) error {
	backend, err := device.ParseBackend(cfg.backend)
	if err != nil {
		return err
	}
	dev, err := device.New(device.WithBackend(backend), device.WithWorkers(cfg.workers))
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()
	log.Info().Str("device", dev.Name()).Int("workers", dev.Workers()).Msg("device ready")

	dir := cfg.dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "gridbench-")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		dir = tmp
	}
	path := filepath.Join(dir, "keys.grd")

	kf, err := gridkit.Create(path, cfg.keys, gridkit.WithDevice(dev), gridkit.WithVerify(cfg.verify))
	if err != nil {
		return err
	}
	defer func() { _ = kf.Close() }()

	plan, err := gridkit.NewPlan(cfg.keys, cfg.density)
	if err != nil {
		return err
	}
	log.Info().Int("keys", cfg.keys).Int("resolution", plan.Resolution).Int("cells", plan.Cells).Msg("grid planned")

	var tm timings
	keys := kf.Keys()
	tm.fill = device.Profile(func() {
		for i := range keys {
			keys[i] = float32(mrand.NormFloat64() * 1e3)
		}
	})

	// murmur3 over the same bytes is the cost of touching every key once
	tm.baseline = device.Profile(func() {
		var buf [4]byte
		for _, k := range kf.Ordered() {
			binary.LittleEndian.PutUint32(buf[:], k)
			murmur3.Sum128WithSeed(buf[:], 0x1234)
		}
	})

	if cfg.cpuprofile != "" {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx := context.Background()
	if tm.normalize, err = profileErr(func() error { return kf.Normalize(ctx) }); err != nil {
		return err
	}
	if tm.encode, err = profileErr(func() error { return kf.Encode(ctx) }); err != nil {
		return err
	}
	log.Debug().Str("state", kf.State().String()).Msg("keys encoded")

	var b partition.Buckets
	tm.partition = device.Profile(func() { b, err = kf.Partition(ctx, plan) })
	if err != nil {
		return err
	}
	empty := 0
	for i := 0; i < b.Len(); i++ {
		if b.Size(i) == 0 {
			empty++
		}
	}

	order := plan.MortonOrder()
	tm.reorder = device.Profile(func() { b, err = kf.Reorder(ctx, b, order) })
	if err != nil {
		return err
	}

	if tm.flush, err = profileErr(kf.Flush); err != nil {
		return err
	}
	if tm.verify, err = profileErr(kf.Verify); err != nil {
		return err
	}
	log.Info().Int("buckets", b.Len()).Int("empty", empty).Msg("pipeline done")

	printResults(cfg, dev, plan, tm)
	return nil
}

func profileErr(fn func() error) (float32, error) {
	var err error
	ms := device.Profile(func() { err = fn() })
	return ms, err
}

func printResults(cfg config, dev device.Device, plan gridkit.Plan, tm timings) {
	rate := func(ms float32) float64 {
		if ms <= 0 {
			return 0
		}
		return float64(cfg.keys) / float64(ms) / 1e3
	}
	verifyStr := "off"
	if cfg.verify {
		verifyStr = "on"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╦══════════════════╗\n")
	fmt.Printf("║ Device: %-12s║ Verify: %-6s ║ Res: %-11d ║\n", truncate(dev.Name(), 12), verifyStr, plan.Resolution)
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Phase               ║ Time           ║ Throughput       ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	row := func(name string, ms float32) {
		fmt.Printf("║ %-19s ║ %9.2f ms   ║ %8.1f Mkeys/s ║\n", name, ms, rate(ms))
	}
	row("Fill (host)", tm.fill)
	row("murmur3 baseline", tm.baseline)
	row("Normalize", tm.normalize)
	row("Encode", tm.encode)
	row("Partition", tm.partition)
	row("Morton reorder", tm.reorder)
	row("Flush", tm.flush)
	row("Verify", tm.verify)
	fmt.Printf("╚═════════════════════╩════════════════╩══════════════════╝\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
