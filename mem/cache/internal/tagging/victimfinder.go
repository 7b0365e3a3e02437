package tagging

// A VictimFinder decides which slot a new line should go to.
type VictimFinder interface {
	FindVictim(queue *LRUQueue) int
}

// LRUVictimFinder fills unused slots first and then evicts the least recently
// used one.
type LRUVictimFinder struct{}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// FindVictim returns the slot to place the next line in.
func (e *LRUVictimFinder) FindVictim(queue *LRUQueue) int {
	if !queue.Full() {
		return queue.NextFree()
	}

	return queue.Tail()
}
