package gridkit

import "github.com/tamirms/gridkit/device"

// Option is a functional option for Create and Open.
type Option func(*config)

type config struct {
	dev    device.Device
	verify bool
}

func defaultConfig() *config {
	return &config{}
}

// WithDevice runs the key file's kernels on d. The key file does not take
// ownership: the caller closes d after closing the file. Without this option
// a serial device is used.
func WithDevice(d device.Device) Option {
	return func(c *config) {
		c.dev = d
	}
}

// WithVerify checks the key multiset before and after every rearranging step
// (Partition, Reorder) and fails with ErrPermutationViolated on a mismatch.
func WithVerify(on bool) Option {
	return func(c *config) {
		c.verify = on
	}
}
