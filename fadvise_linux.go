//go:build linux

package gridkit

import "golang.org/x/sys/unix"

// fadviseSequential tells the kernel an opened key file is about to be
// scanned front to back. Errors are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
