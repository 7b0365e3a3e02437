package layer

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachesim/mem/mem"
)

// Strategy is the way a layer maps lines to slots.
type Strategy int

// The supported mapping strategies.
const (
	DirectMapped Strategy = iota
	FullyAssociative
)

func (s Strategy) String() string {
	switch s {
	case DirectMapped:
		return "direct-mapped"
	case FullyAssociative:
		return "fully-associative"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the strategy name or its number.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "dm", "direct", "direct-mapped", "directmapped":
		return DirectMapped, nil
	case "1", "fa", "full", "fully-associative", "fullyassociative":
		return FullyAssociative, nil
	default:
		return 0, fmt.Errorf("%w: unknown mapping strategy %q",
			mem.ErrConfiguration, s)
	}
}

// Spec holds immutable configuration values for a layer.
type Spec struct {
	Level    int      // 1 is the level nearest to the processor
	Latency  uint32   // cycles from the decision to the result, at least 1
	NumLines uint32   // power of two
	LineSize uint32   // bytes, power of two
	Strategy Strategy // DirectMapped or FullyAssociative
}

// Validate reports the first problem of the spec, wrapping
// mem.ErrConfiguration.
func (s Spec) Validate() error {
	if s.Level < 1 {
		return fmt.Errorf("%w: level must be >= 1", mem.ErrConfiguration)
	}

	if s.Latency < 1 {
		return fmt.Errorf("%w: L%d latency must be >= 1",
			mem.ErrConfiguration, s.Level)
	}

	if !mem.IsPowerOfTwo(s.NumLines) {
		return fmt.Errorf("%w: L%d number of lines %d is not a power of two",
			mem.ErrConfiguration, s.Level, s.NumLines)
	}

	if !mem.IsPowerOfTwo(s.LineSize) || s.LineSize < mem.WordSize {
		return fmt.Errorf(
			"%w: cache line size %d is not a power of two of at least %d",
			mem.ErrConfiguration, s.LineSize, mem.WordSize)
	}

	if s.Strategy != DirectMapped && s.Strategy != FullyAssociative {
		return fmt.Errorf("%w: unknown mapping strategy %d",
			mem.ErrConfiguration, int(s.Strategy))
	}

	return nil
}

// Defaults returns the spec of the first level of the default hierarchy.
func Defaults() Spec {
	return Spec{
		Level:    1,
		Latency:  8,
		NumLines: 512,
		LineSize: 64,
		Strategy: FullyAssociative,
	}
}
