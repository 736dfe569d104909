//go:build linux

package gridkit

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the blocks of a new key file so writes through the
// mapping cannot fault with SIGBUS when the disk fills up.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	if err := unix.Fallocate(fd, 0, 0, size); err != nil {
		// tmpfs on old kernels, NFS
		return unix.Ftruncate(fd, size)
	}
	return unix.Ftruncate(fd, size)
}
