package tagging

import "fmt"

// FullyAssociative is a directory where any line can go to any slot. It
// replaces lines in least-recently-used order.
type FullyAssociative struct {
	blockArray

	queue        *LRUQueue
	tagToSlot    map[uint32]int
	victimFinder VictimFinder
}

// NewFullyAssociative creates a fully-associative directory. numLines and
// lineSize must be powers of two.
func NewFullyAssociative(numLines, lineSize uint32) *FullyAssociative {
	return &FullyAssociative{
		blockArray:   newBlockArray(numLines, lineSize),
		queue:        NewLRUQueue(int(numLines)),
		tagToSlot:    make(map[uint32]int, numLines),
		victimFinder: NewLRUVictimFinder(),
	}
}

// Decompose splits the address into tag and offset. There is no index.
func (d *FullyAssociative) Decompose(addr uint32) Location {
	return Location{
		Tag:    uint32(uint64(addr) >> d.offsetBits),
		Offset: d.offset(addr),
	}
}

// Compose rebuilds the line base address from the tag.
func (d *FullyAssociative) Compose(tag uint32, _ int) uint32 {
	return uint32(uint64(tag) << d.offsetBits)
}

// Lookup finds the slot through the tag map.
func (d *FullyAssociative) Lookup(loc Location) (int, bool, error) {
	slot, found := d.tagToSlot[loc.Tag]
	if !found {
		return 0, false, nil
	}

	block := &d.blocks[slot]
	if !block.IsValid || block.Tag != loc.Tag {
		return 0, false, fmt.Errorf(
			"%w: tag 0x%x maps to slot %d holding tag 0x%x (valid %t)",
			ErrCorrupted, loc.Tag, slot, block.Tag, block.IsValid)
	}

	return slot, true, nil
}

// Visit moves the slot to the head of the LRU queue.
func (d *FullyAssociative) Visit(slot int) {
	d.queue.Visit(slot)
}

// Place reuses the slot already holding the tag, then unused slots, then
// the least recently used slot.
func (d *FullyAssociative) Place(loc Location) (int, Block) {
	if slot, found := d.tagToSlot[loc.Tag]; found {
		d.queue.Visit(slot)
		return slot, Block{}
	}

	var evicted Block

	slot := d.victimFinder.FindVictim(d.queue)
	if d.queue.Full() {
		evicted = d.snapshot(slot)
		delete(d.tagToSlot, evicted.Tag)
		d.queue.Visit(slot)
	} else {
		d.queue.Push(slot)
	}

	d.tagToSlot[loc.Tag] = slot

	return slot, evicted
}

// Order returns the slots from the most to the least recently used.
func (d *FullyAssociative) Order() []int {
	return d.queue.Order()
}

// Occupancy returns the number of slots in use.
func (d *FullyAssociative) Occupancy() int {
	return d.queue.Len()
}
