package layer

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
	"github.com/sarchlab/cachesim/sim"
)

// Builder constructs a Comp either from a Spec or per-field setters.
type Builder struct {
	spec Spec
}

// MakeBuilder returns a new Builder with default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder { b.spec = spec; return b }

// WithLevel sets the level of the layer.
func (b Builder) WithLevel(level int) Builder { b.spec.Level = level; return b }

// WithLatency sets the number of cycles a lookup takes.
func (b Builder) WithLatency(cycles uint32) Builder { b.spec.Latency = cycles; return b }

// WithNumLines sets the number of lines.
func (b Builder) WithNumLines(n uint32) Builder { b.spec.NumLines = n; return b }

// WithLineSize sets the number of bytes per line.
func (b Builder) WithLineSize(n uint32) Builder { b.spec.LineSize = n; return b }

// WithStrategy sets the mapping strategy.
func (b Builder) WithStrategy(s Strategy) Builder { b.spec.Strategy = s; return b }

// Build creates the layer. It panics if the spec is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		panic(err)
	}

	c := &Comp{Spec: b.spec}
	c.ComponentBase = sim.NewComponentBase(name)

	switch b.spec.Strategy {
	case DirectMapped:
		c.directory = tagging.NewDirectMapped(b.spec.NumLines, b.spec.LineSize)
	case FullyAssociative:
		c.directory = tagging.NewFullyAssociative(
			b.spec.NumLines, b.spec.LineSize)
	default:
		panic(fmt.Sprintf("unknown mapping strategy %d", b.spec.Strategy))
	}

	return c
}
