package mainmemory

import (
	"github.com/sarchlab/cachesim/mem/mem"
	"github.com/sarchlab/cachesim/sim"
)

// Builder constructs a Comp either from a Spec or per-field setters.
type Builder struct {
	spec    Spec
	storage *mem.Storage
}

// MakeBuilder returns a new Builder with default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

func (b Builder) WithSpec(spec Spec) Builder { b.spec = spec; return b }
func (b Builder) WithLatency(cycles uint32) Builder { b.spec.Latency = cycles; return b }
func (b Builder) WithLineSize(n uint32) Builder { b.spec.LineSize = n; return b }
func (b Builder) WithNewStorage(capacity uint64) Builder { b.storage = nil; b.spec.CapacityBytes = capacity; return b }
func (b Builder) WithStorage(storage *mem.Storage) Builder { b.storage = storage; return b }

// Build creates the memory. It panics if the spec is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		panic(err)
	}

	c := &Comp{Spec: b.spec}
	c.ComponentBase = sim.NewComponentBase(name)

	c.Storage = b.storage
	if c.Storage == nil {
		c.Storage = mem.NewStorage(b.spec.CapacityBytes)
	}

	return c
}
