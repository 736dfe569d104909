package device

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// Capabilities describes the host CPU as seen by the dispatch layer.
type Capabilities struct {
	Arch    string
	Target  string // widest vector extension detected, or "scalar"
	NumCPU  int
	AVX2    bool
	AVX512  bool
	NEON    bool
	SVE     bool
	Threads int // GOMAXPROCS at detection time
}

var (
	detectOnce sync.Once
	detected   Capabilities
)

// Detect returns the host capabilities. The result is computed once.
func Detect() Capabilities {
	detectOnce.Do(func() {
		detected = detectCapabilities()
	})
	return detected
}

func detectCapabilities() Capabilities {
	c := Capabilities{
		Arch:    runtime.GOARCH,
		Target:  "scalar",
		NumCPU:  runtime.NumCPU(),
		Threads: runtime.GOMAXPROCS(0),
	}
	switch runtime.GOARCH {
	case "amd64":
		c.AVX2 = cpu.X86.HasAVX2
		c.AVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
		switch {
		case c.AVX512:
			c.Target = "avx512"
		case c.AVX2:
			c.Target = "avx2"
		}
	case "arm64":
		c.NEON = cpu.ARM64.HasASIMD
		c.SVE = cpu.ARM64.HasSVE
		switch {
		case c.SVE:
			c.Target = "sve"
		case c.NEON:
			c.Target = "neon"
		}
	}
	return c
}
