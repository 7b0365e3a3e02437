package simulation

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/mem/mainmemory"
	"github.com/sarchlab/cachesim/mem/mem"
)

// Config holds the parameters of a run.
type Config struct {
	CycleBudget   uint64 // the run stops after this many cycles
	TraceFile     string // waveform output, none if empty
	NumLevels     int
	LineSize      uint32
	NumLines      [hierarchy.MaxLevels]uint32 // L1 first, unused levels ignored
	Latencies     [hierarchy.MaxLevels]uint32
	Strategy      layer.Strategy
	MemoryLatency uint32

	// Verify compares the data of every read that carries an expected value.
	Verify bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	spec := hierarchy.Defaults()

	cfg := Config{
		CycleBudget:   10_000_000,
		NumLevels:     len(spec.Levels),
		LineSize:      spec.Memory.LineSize,
		Strategy:      spec.Levels[0].Strategy,
		MemoryLatency: spec.Memory.Latency,
	}

	for i, l := range spec.Levels {
		cfg.NumLines[i] = l.NumLines
		cfg.Latencies[i] = l.Latency
	}

	return cfg
}

// Validate reports the first problem of the configuration, wrapping
// ErrConfiguration.
func (c Config) Validate() error {
	_, err := c.HierarchySpec()
	return err
}

// HierarchySpec converts the configuration into the spec of the cache
// hierarchy.
func (c Config) HierarchySpec() (hierarchy.Spec, error) {
	if c.NumLevels < 1 || c.NumLevels > hierarchy.MaxLevels {
		return hierarchy.Spec{}, fmt.Errorf(
			"%w: number of cache levels %d not in [1, %d]",
			mem.ErrConfiguration, c.NumLevels, hierarchy.MaxLevels)
	}

	spec := hierarchy.Spec{
		Memory: mainmemory.Spec{
			Latency:       c.MemoryLatency,
			LineSize:      c.LineSize,
			CapacityBytes: mem.AddressSpaceSize,
		},
	}

	for i := 0; i < c.NumLevels; i++ {
		spec.Levels = append(spec.Levels, layer.Spec{
			Level:    i + 1,
			Latency:  c.Latencies[i],
			NumLines: c.NumLines[i],
			LineSize: c.LineSize,
			Strategy: c.Strategy,
		})
	}

	if err := spec.Validate(); err != nil {
		return hierarchy.Spec{}, err
	}

	return spec, nil
}
