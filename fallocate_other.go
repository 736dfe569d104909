//go:build !linux && !darwin

package gridkit

import "os"

// fallocateFile sizes a new key file. Blocks are not reserved here.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
