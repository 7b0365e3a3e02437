package hierarchy

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/mem/mainmemory"
	"github.com/sarchlab/cachesim/mem/mem"
)

// MaxLevels is the largest number of cache levels a hierarchy can have.
const MaxLevels = 3

// Spec holds immutable configuration values for the whole hierarchy.
type Spec struct {
	Levels []layer.Spec // L1 first
	Memory mainmemory.Spec
}

// Validate checks every level and the memory, and that they agree on the
// line size.
func (s Spec) Validate() error {
	if len(s.Levels) < 1 || len(s.Levels) > MaxLevels {
		return fmt.Errorf("%w: number of cache levels %d not in [1, %d]",
			mem.ErrConfiguration, len(s.Levels), MaxLevels)
	}

	for i, l := range s.Levels {
		if l.Level != i+1 {
			return fmt.Errorf("%w: level %d is configured as L%d",
				mem.ErrConfiguration, i+1, l.Level)
		}

		if err := l.Validate(); err != nil {
			return err
		}

		if l.LineSize != s.Memory.LineSize {
			return fmt.Errorf(
				"%w: L%d line size %d differs from the memory line size %d",
				mem.ErrConfiguration, l.Level, l.LineSize, s.Memory.LineSize)
		}
	}

	return s.Memory.Validate()
}

// Defaults returns the three-level hierarchy used when nothing else is
// configured.
func Defaults() Spec {
	l1 := layer.Defaults()

	l2 := l1
	l2.Level = 2
	l2.NumLines = 4096
	l2.Latency = 16

	l3 := l1
	l3.Level = 3
	l3.NumLines = 32768
	l3.Latency = 32

	return Spec{
		Levels: []layer.Spec{l1, l2, l3},
		Memory: mainmemory.Defaults(),
	}
}
