// Package hierarchy coordinates the cache levels and the main memory.
package hierarchy

import (
	"fmt"
	"log"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/mem/cache/routing"
	"github.com/sarchlab/cachesim/mem/mainmemory"
	"github.com/sarchlab/cachesim/mem/mem"
	"github.com/sarchlab/cachesim/sim"
)

// Comp is a cache hierarchy. It accepts one request at a time through Issue
// and is advanced one cycle per Tick. In every tick the middlewares run in
// a fixed order: broadcast the inputs, settle the muxes, tick the levels
// from L1 down, tick the memory, resolve the request, then publish the
// signals.
type Comp struct {
	*sim.ComponentBase
	sim.MiddlewareHolder

	Spec   Spec
	Layers []*layer.Comp
	Memory *mainmemory.Comp

	addrIn, dataIn *routing.Mux[uint32]
	writeIn        *routing.Mux[bool]

	dataOut           *routing.Mux[uint32]
	missOut, readyOut *routing.Mux[bool]

	state state
	err   error
}

// Tick advances the hierarchy by one cycle.
func (c *Comp) Tick() bool {
	c.state.Cycle++

	return c.MiddlewareHolder.Tick()
}

// Issue hands a new request to the hierarchy. It is broadcast to the levels
// in the next tick.
func (c *Comp) Issue(req mem.AccessReq) {
	if c.Busy() {
		log.Panicf("%s: request issued while %s is in flight",
			c.Name(), c.state.Req)
	}

	c.state.Phase = phaseIssued
	c.state.Req = req
	c.state.HitLevel = noLevel
	c.state.Miss = false
	c.state.Data = 0
	c.err = nil
}

// Busy tells if a request is issued and not yet resolved.
func (c *Comp) Busy() bool {
	return c.state.Phase == phaseIssued || c.state.Phase == phaseInFlight
}

// Ready tells if the last request has been resolved.
func (c *Comp) Ready() bool {
	return c.state.Phase == phaseDone && c.readyOut.Output(0)
}

// Miss tells if the resolved request missed in every level.
func (c *Comp) Miss() bool {
	return c.Ready() && c.missOut.Output(0)
}

// Data returns the word produced by the resolved request.
func (c *Comp) Data() uint32 {
	return c.dataOut.Output(0)
}

// HitLevel returns the 1-based level that served the last request, or 0 if
// it was served by the memory.
func (c *Comp) HitLevel() int {
	return c.state.HitLevel + 1
}

// Err returns the error that stopped the last request, if any.
func (c *Comp) Err() error {
	return c.err
}

// NumLevels returns the number of cache levels.
func (c *Comp) NumLevels() int {
	return len(c.Layers)
}

// CurrentCycle returns the number of ticks seen so far.
func (c *Comp) CurrentCycle() uint64 {
	return c.state.Cycle
}

// Preload stores words in the memory without going through the caches.
func (c *Comp) Preload(words map[uint32]uint32) error {
	for addr, word := range words {
		if err := c.Memory.SetWord(addr, word); err != nil {
			return err
		}
	}

	return nil
}

// LineContent returns one byte of a line held by a level. Levels are
// 1-based.
func (c *Comp) LineContent(level, line, byteIndex int) (uint8, error) {
	if level < 1 || level > len(c.Layers) {
		return 0, fmt.Errorf("%w: %s has no level %d",
			mem.ErrAddressing, c.Name(), level)
	}

	l, err := c.Layers[level-1].Line(line)
	if err != nil {
		return 0, err
	}

	if byteIndex < 0 || byteIndex >= len(l.Data) {
		return 0, fmt.Errorf("%w: line has no byte %d",
			mem.ErrAddressing, byteIndex)
	}

	return l.Data[byteIndex], nil
}
