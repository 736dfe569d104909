//go:build linux

package gridkit

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE, Linux 5.14+
const madvPopulateWrite = 23

// prefaultRegion populates the pages of a freshly mapped key region so the
// first parallel pass over it does not stall on page faults. Older kernels
// answer EINVAL, which is ignored.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
