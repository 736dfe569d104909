//go:build !linux

package gridkit

// fadviseSequential is a no-op outside Linux.
func fadviseSequential(int, int64, int64) {}
