//go:build darwin

package gridkit

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the blocks of a new key file with F_PREALLOCATE and
// sets its size.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// a failed reservation still leaves a usable, sparse file
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}
