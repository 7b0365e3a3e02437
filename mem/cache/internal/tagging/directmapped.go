package tagging

import "github.com/sarchlab/cachesim/mem/mem"

// DirectMapped is a directory where every address maps to exactly one slot.
type DirectMapped struct {
	blockArray

	numLines  uint32
	indexBits uint32
}

// NewDirectMapped creates a direct-mapped directory. numLines and lineSize
// must be powers of two.
func NewDirectMapped(numLines, lineSize uint32) *DirectMapped {
	return &DirectMapped{
		blockArray: newBlockArray(numLines, lineSize),
		numLines:   numLines,
		indexBits:  mem.Log2(numLines),
	}
}

// Decompose splits the address into tag, index and offset.
func (d *DirectMapped) Decompose(addr uint32) Location {
	return Location{
		Tag:    uint32(uint64(addr) >> (d.offsetBits + d.indexBits)),
		Index:  (addr >> d.offsetBits) & (d.numLines - 1),
		Offset: d.offset(addr),
	}
}

// Compose rebuilds the line base address from the tag and the slot.
func (d *DirectMapped) Compose(tag uint32, slot int) uint32 {
	return uint32(uint64(tag)<<(d.offsetBits+d.indexBits) |
		uint64(slot)<<d.offsetBits)
}

// Lookup checks the slot selected by the index.
func (d *DirectMapped) Lookup(loc Location) (int, bool, error) {
	block := &d.blocks[loc.Index]
	if block.IsValid && block.Tag == loc.Tag {
		return int(loc.Index), true, nil
	}

	return 0, false, nil
}

// Visit does nothing, as direct-mapped caches keep no usage order.
func (d *DirectMapped) Visit(int) {}

// Place returns the slot selected by the index, evicting whatever is there.
func (d *DirectMapped) Place(loc Location) (int, Block) {
	return int(loc.Index), d.snapshot(int(loc.Index))
}
