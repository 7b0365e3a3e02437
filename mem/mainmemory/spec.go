package mainmemory

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/mem"
)

// Spec holds immutable configuration values for the main memory.
type Spec struct {
	Latency       uint32 // cycles from the strobe to the result, at least 1
	LineSize      uint32 // bytes per line handed to the caches
	CapacityBytes uint64
}

// Validate reports the first problem of the spec, wrapping
// mem.ErrConfiguration.
func (s Spec) Validate() error {
	if s.Latency < 1 {
		return fmt.Errorf("%w: memory latency must be >= 1",
			mem.ErrConfiguration)
	}

	if !mem.IsPowerOfTwo(s.LineSize) || s.LineSize < mem.WordSize {
		return fmt.Errorf(
			"%w: cache line size %d is not a power of two of at least %d",
			mem.ErrConfiguration, s.LineSize, mem.WordSize)
	}

	if s.CapacityBytes < uint64(s.LineSize) {
		return fmt.Errorf("%w: memory capacity %d is smaller than a line",
			mem.ErrConfiguration, s.CapacityBytes)
	}

	return nil
}

// Defaults returns a Spec with sane defaults.
func Defaults() Spec {
	return Spec{
		Latency:       100,
		LineSize:      64,
		CapacityBytes: mem.AddressSpaceSize,
	}
}
