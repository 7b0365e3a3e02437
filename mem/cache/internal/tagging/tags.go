// Package tagging keeps the tag directories of a cache layer.
package tagging

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cachesim/mem/mem"
)

// ErrCorrupted is returned when the directory finds its own bookkeeping
// inconsistent.
var ErrCorrupted = errors.New("tag directory corrupted")

// A Block of a cache is a cache line together with its tag.
type Block struct {
	Tag     uint32
	IsValid bool
	Data    []byte
}

// A Location is an address split into the fields the directory uses.
type Location struct {
	Tag    uint32
	Index  uint32
	Offset uint32
}

// A Directory finds and places cache lines.
type Directory interface {
	// Decompose splits an address into tag, index and offset.
	Decompose(addr uint32) Location

	// Compose rebuilds the line base address of a block stored at slot.
	Compose(tag uint32, slot int) uint32

	// Lookup returns the slot holding the line of loc.
	Lookup(loc Location) (slot int, found bool, err error)

	// Visit marks the slot as the most recently used one.
	Visit(slot int)

	// Place picks the slot a new line for loc goes to, making it the most
	// recently used one. The tag of an evicted line is dropped.
	Place(loc Location) (slot int, evicted Block)

	// Block returns the block stored at slot.
	Block(slot int) *Block

	// NumBlocks returns the number of lines the directory manages.
	NumBlocks() int
}

type blockArray struct {
	lineSize   uint32
	offsetBits uint32
	blocks     []Block
}

func newBlockArray(numLines, lineSize uint32) blockArray {
	a := blockArray{
		lineSize:   lineSize,
		offsetBits: mem.Log2(lineSize),
		blocks:     make([]Block, numLines),
	}

	for i := range a.blocks {
		a.blocks[i].Data = make([]byte, lineSize)
	}

	return a
}

func (a *blockArray) Block(slot int) *Block {
	if slot < 0 || slot >= len(a.blocks) {
		panic(fmt.Sprintf("slot %d out of range [0, %d)", slot, len(a.blocks)))
	}

	return &a.blocks[slot]
}

func (a *blockArray) NumBlocks() int {
	return len(a.blocks)
}

func (a *blockArray) offset(addr uint32) uint32 {
	return addr & (a.lineSize - 1)
}

func (a *blockArray) snapshot(slot int) Block {
	b := a.blocks[slot]
	b.Data = append([]byte(nil), b.Data...)

	return b
}
