package hierarchy

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/mem/cache/routing"
	"github.com/sarchlab/cachesim/mem/mainmemory"
	"github.com/sarchlab/cachesim/mem/mem"
	"github.com/sarchlab/cachesim/sim"
)

// Builder can build cache hierarchies.
type Builder struct {
	spec    Spec
	storage *mem.Storage
}

// MakeBuilder creates a new builder with the default three-level spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithLineSize sets the line size of every level and of the memory.
func (b Builder) WithLineSize(n uint32) Builder {
	b.spec.Levels = append([]layer.Spec(nil), b.spec.Levels...)
	for i := range b.spec.Levels {
		b.spec.Levels[i].LineSize = n
	}

	b.spec.Memory.LineSize = n

	return b
}

// WithMemoryLatency sets the latency of the main memory.
func (b Builder) WithMemoryLatency(cycles uint32) Builder {
	b.spec.Memory.Latency = cycles
	return b
}

// WithStorage makes the memory use an existing storage.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// Build creates the hierarchy. It panics if the spec is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		panic(err)
	}

	c := &Comp{Spec: b.spec}
	c.ComponentBase = sim.NewComponentBase(name)

	for _, s := range b.spec.Levels {
		l := layer.MakeBuilder().
			WithSpec(s).
			Build(sim.BuildName(name, fmt.Sprintf("L%d", s.Level)))
		c.Layers = append(c.Layers, l)
	}

	c.Memory = mainmemory.MakeBuilder().
		WithSpec(b.spec.Memory).
		WithStorage(b.storage).
		Build(sim.BuildName(name, "Memory"))

	b.buildMuxes(c)

	c.AddMiddleware(&broadcastMW{Comp: c})
	c.AddMiddleware(&settleMW{Comp: c})
	c.AddMiddleware(&layerMW{Comp: c})
	c.AddMiddleware(&memoryMW{Comp: c})
	c.AddMiddleware(&resolveMW{Comp: c})
	c.AddMiddleware(&signalMW{Comp: c})

	c.state.HitLevel = noLevel

	return c
}

func (b Builder) buildMuxes(c *Comp) {
	width := len(c.Layers) + 1

	c.addrIn = routing.NewMux[uint32](c.Name()+".AddrIn", width)
	c.dataIn = routing.NewMux[uint32](c.Name()+".DataIn", width)
	c.writeIn = routing.NewMux[bool](c.Name()+".WriteIn", width)

	c.dataOut = routing.NewMux[uint32](c.Name()+".DataOut", width)
	c.missOut = routing.NewMux[bool](c.Name()+".MissOut", width)
	c.readyOut = routing.NewMux[bool](c.Name()+".ReadyOut", width)
}
