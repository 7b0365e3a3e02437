// Package mainmemory models the memory behind the last cache level.
package mainmemory

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/mem"
	"github.com/sarchlab/cachesim/sim"
)

type op int

const (
	opNone op = iota
	opRead
	opWrite
)

// txn captures the in-flight access.
type txn struct {
	Op        op
	Addr      uint32
	Data      uint32
	Remaining uint32
	Fresh     bool
}

// Comp is a main memory holding a sparse byte image of the address space.
// A strobed access completes Latency ticks after the strobe tick and can be
// cancelled with Stop until then.
type Comp struct {
	*sim.ComponentBase

	Spec    Spec
	Storage *mem.Storage

	addr, data uint32
	inflight   txn
	ready      bool
	line       []byte
	err        error

	NumReads, NumWrites, NumCancelled uint64
}

// SetInputs drives the address and data lines.
func (c *Comp) SetInputs(addr, data uint32) {
	c.addr = addr
	c.data = data
}

// StrobeRead starts fetching the line that holds the current address.
func (c *Comp) StrobeRead() {
	c.strobe(opRead)
}

// StrobeWrite starts writing the current data word to the current address.
func (c *Comp) StrobeWrite() {
	c.strobe(opWrite)
}

func (c *Comp) strobe(o op) {
	c.inflight = txn{
		Op:        o,
		Addr:      c.addr,
		Data:      c.data,
		Remaining: c.Spec.Latency,
		Fresh:     true,
	}
	c.ready = false
	c.line = nil
	c.err = nil
}

// Tick counts down the in-flight access. It returns true if the state
// changed.
func (c *Comp) Tick() bool {
	if c.inflight.Op == opNone {
		return false
	}

	if c.inflight.Fresh {
		c.inflight.Fresh = false
		return false
	}

	c.inflight.Remaining--
	if c.inflight.Remaining > 0 {
		return true
	}

	c.complete()

	return true
}

func (c *Comp) complete() {
	t := c.inflight
	c.inflight = txn{}

	if t.Op == opWrite {
		if err := c.SetWord(t.Addr, t.Data); err != nil {
			c.err = err
			return
		}

		c.NumWrites++
	} else {
		c.NumReads++
	}

	line, err := c.GetLine(t.Addr)
	if err != nil {
		c.err = err
		return
	}

	c.line = line
	c.ready = true
}

// Stop cancels the in-flight access. A cancelled write leaves the storage
// untouched.
func (c *Comp) Stop() {
	if c.inflight.Op != opNone {
		c.NumCancelled++
	}

	c.inflight = txn{}
	c.ready = false
}

// Ready tells if the last access completed.
func (c *Comp) Ready() bool {
	return c.ready
}

// Busy tells if an access is in flight.
func (c *Comp) Busy() bool {
	return c.inflight.Op != opNone
}

// Line returns the line exposed by the last completed access.
func (c *Comp) Line() []byte {
	return c.line
}

// Err returns the error of the last access, if any.
func (c *Comp) Err() error {
	return c.err
}

// GetLine returns a copy of the line that holds addr. The line starts at the
// line-size-aligned address at or below addr.
func (c *Comp) GetLine(addr uint32) ([]byte, error) {
	base := mem.LineBase(addr, c.Spec.LineSize)

	line, err := c.Storage.Read(uint64(base), uint64(c.Spec.LineSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mem.ErrAddressing, c.Name(), err)
	}

	return line, nil
}

// SetWord stores the little-endian word at addr.
func (c *Comp) SetWord(addr uint32, word uint32) error {
	buf := make([]byte, mem.WordSize)
	_ = mem.SpliceWord(buf, 0, word)

	if err := c.Storage.Write(uint64(addr), buf); err != nil {
		return fmt.Errorf("%w: %s: %w", mem.ErrAddressing, c.Name(), err)
	}

	return nil
}

// Word returns the little-endian word stored at addr.
func (c *Comp) Word(addr uint32) (uint32, error) {
	buf, err := c.Storage.Read(uint64(addr), mem.WordSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", mem.ErrAddressing, c.Name(), err)
	}

	return mem.ExtractWord(buf, 0)
}
