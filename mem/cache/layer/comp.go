// Package layer implements a single level of the cache hierarchy.
package layer

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
	"github.com/sarchlab/cachesim/mem/mem"
	"github.com/sarchlab/cachesim/sim"
)

// CacheLine is a copy of one line held by a layer.
type CacheLine struct {
	Tag   uint32
	Valid bool
	Data  []byte
}

// Comp is one cache level. It is ticked by the hierarchy that owns it.
//
// A request accepted in one tick is decided in the next tick. The outcome
// becomes ready Latency ticks after the decision tick, counting the decision
// tick itself.
type Comp struct {
	*sim.ComponentBase

	Spec Spec

	directory tagging.Directory
	state     state
	err       error
}

// Accept latches a broadcast request. Any unfinished request is abandoned.
func (c *Comp) Accept(req mem.AccessReq) {
	c.state = state{
		Phase: phaseDeciding,
		Req:   req,
		Fresh: true,
		Idle:  c.state.Idle,
	}
	c.err = nil
}

// Tick advances the pending request by one cycle. It returns true if the
// state of the layer changed.
func (c *Comp) Tick() bool {
	skip := c.state.Idle || c.state.Fresh
	c.state.Idle = false
	c.state.Fresh = false

	if skip {
		return false
	}

	switch c.state.Phase {
	case phaseDeciding:
		c.decide()
		return true
	case phaseWaiting:
		c.countDown()
		return true
	default:
		return false
	}
}

func (c *Comp) decide() {
	loc := c.directory.Decompose(c.state.Req.Address)
	if uint64(loc.Offset)+mem.WordSize > uint64(c.Spec.LineSize) {
		c.fail(fmt.Errorf(
			"%w: %s: offset %d of address 0x%08x leaves less than %d bytes "+
				"in a %d-byte line",
			mem.ErrAddressing, c.Name(), loc.Offset, c.state.Req.Address,
			mem.WordSize, c.Spec.LineSize))

		return
	}

	slot, hit, err := c.directory.Lookup(loc)
	if err != nil {
		c.fail(fmt.Errorf("%w: %s: %w", mem.ErrProtocol, c.Name(), err))
		return
	}

	c.state.Loc = loc
	c.state.Hit = hit
	c.state.Slot = slot
	c.state.Remaining = c.Spec.Latency
	c.countDown()
}

func (c *Comp) countDown() {
	c.state.Remaining--
	if c.state.Remaining == 0 {
		c.state.Phase = phaseReady
		return
	}

	c.state.Phase = phaseWaiting
}

func (c *Comp) fail(err error) {
	c.err = err
	c.state.Phase = phaseFailed
}

// Ready tells if the outcome of the current request is visible.
func (c *Comp) Ready() bool {
	return c.state.Phase == phaseReady
}

// Busy tells if the layer is still working on a request.
func (c *Comp) Busy() bool {
	return c.state.Phase == phaseDeciding || c.state.Phase == phaseWaiting
}

// Hit tells if the ready outcome is a hit.
func (c *Comp) Hit() bool {
	return c.Ready() && c.state.Hit
}

// Miss tells if the ready outcome is a miss.
func (c *Comp) Miss() bool {
	return c.Ready() && !c.state.Hit
}

// Data returns the word produced by the last committed read.
func (c *Comp) Data() uint32 {
	return c.state.Output
}

// Err returns the error of the current request, if any.
func (c *Comp) Err() error {
	return c.err
}

// Commit applies the side effects of a ready hit. Reads extract the word,
// writes splice it into the line, and the line becomes the most recently
// used one.
func (c *Comp) Commit() error {
	if !c.Hit() {
		return fmt.Errorf("%w: %s: commit without a ready hit (%s)",
			mem.ErrProtocol, c.Name(), c.state.Phase)
	}

	if c.state.Committed {
		return nil
	}

	block := c.directory.Block(c.state.Slot)

	var err error
	if c.state.Req.IsWrite {
		err = mem.SpliceWord(block.Data, c.state.Loc.Offset, c.state.Req.Data)
		c.state.Output = c.state.Req.Data
	} else {
		c.state.Output, err = mem.ExtractWord(block.Data, c.state.Loc.Offset)
	}

	if err != nil {
		err = fmt.Errorf("%w: %s: %w", mem.ErrAddressing, c.Name(), err)
		c.fail(err)

		return err
	}

	c.directory.Visit(c.state.Slot)
	c.state.Committed = true

	return nil
}

// WriteCacheline installs the line that holds addr. The new line becomes
// the most recently used one. Fully-associative layers fill unused slots
// before evicting.
func (c *Comp) WriteCacheline(addr uint32, line []byte) error {
	if uint32(len(line)) != c.Spec.LineSize {
		return fmt.Errorf("%w: %s: line of %d bytes, want %d",
			mem.ErrProtocol, c.Name(), len(line), c.Spec.LineSize)
	}

	loc := c.directory.Decompose(addr)
	slot, _ := c.directory.Place(loc)

	block := c.directory.Block(slot)
	block.Tag = loc.Tag
	block.IsValid = true
	copy(block.Data, line)

	return nil
}

// Stop abandons the current request without side effects.
func (c *Comp) Stop() {
	if c.state.Phase == phaseFailed {
		return
	}

	c.state.Phase = phaseIdle
}

// MarkIdle suppresses the next tick of the layer once.
func (c *Comp) MarkIdle() {
	c.state.Idle = true
}

// Line returns a copy of the line stored at slot i.
func (c *Comp) Line(i int) (CacheLine, error) {
	if i < 0 || i >= c.directory.NumBlocks() {
		return CacheLine{}, fmt.Errorf("%w: %s has no line %d",
			mem.ErrAddressing, c.Name(), i)
	}

	b := c.directory.Block(i)

	return CacheLine{
		Tag:   b.Tag,
		Valid: b.IsValid,
		Data:  append([]byte(nil), b.Data...),
	}, nil
}

// NumLines returns the number of lines in the layer.
func (c *Comp) NumLines() int {
	return c.directory.NumBlocks()
}

// LineAddress returns the base address of the line stored at slot i.
func (c *Comp) LineAddress(i int) uint32 {
	return c.directory.Compose(c.directory.Block(i).Tag, i)
}

// Contains tells if the line holding addr is present, without touching the
// replacement order.
func (c *Comp) Contains(addr uint32) bool {
	_, found, err := c.directory.Lookup(c.directory.Decompose(addr))

	return err == nil && found
}

// UsageOrder returns the slots from the most to the least recently used. It
// is empty for direct-mapped layers.
func (c *Comp) UsageOrder() []int {
	fa, ok := c.directory.(*tagging.FullyAssociative)
	if !ok {
		return nil
	}

	return fa.Order()
}
