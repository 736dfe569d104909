//go:build !linux

package gridkit

// prefaultRegion is a no-op outside Linux.
func prefaultRegion([]byte) {}
