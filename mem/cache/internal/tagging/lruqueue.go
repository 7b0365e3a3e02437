package tagging

const nilSlot = -1

type lruNode struct {
	prev, next int
}

// An LRUQueue orders slots from the most recently used (head) to the least
// recently used (tail). Nodes live in an arena indexed by slot, so moving a
// slot never allocates.
type LRUQueue struct {
	nodes      []lruNode
	head, tail int
	size       int
}

// NewLRUQueue creates an empty queue for capacity slots.
func NewLRUQueue(capacity int) *LRUQueue {
	q := &LRUQueue{
		nodes: make([]lruNode, capacity),
		head:  nilSlot,
		tail:  nilSlot,
	}

	for i := range q.nodes {
		q.nodes[i] = lruNode{prev: nilSlot, next: nilSlot}
	}

	return q
}

// Len returns the number of slots in the queue.
func (q *LRUQueue) Len() int {
	return q.size
}

// Full tells if every slot is in the queue.
func (q *LRUQueue) Full() bool {
	return q.size == len(q.nodes)
}

// NextFree returns the first slot never placed in the queue. Slots are handed
// out in order, so it is only valid while the queue is not full.
func (q *LRUQueue) NextFree() int {
	return q.size
}

// Tail returns the least recently used slot.
func (q *LRUQueue) Tail() int {
	return q.tail
}

// Push puts a new slot at the head.
func (q *LRUQueue) Push(slot int) {
	q.linkFront(slot)
	q.size++
}

// Visit moves a slot already in the queue to the head.
func (q *LRUQueue) Visit(slot int) {
	if q.head == slot {
		return
	}

	q.unlink(slot)
	q.linkFront(slot)
}

// Order returns the slots from the most to the least recently used.
func (q *LRUQueue) Order() []int {
	order := make([]int, 0, q.size)
	for s := q.head; s != nilSlot; s = q.nodes[s].next {
		order = append(order, s)
	}

	return order
}

func (q *LRUQueue) unlink(slot int) {
	n := q.nodes[slot]

	if n.prev != nilSlot {
		q.nodes[n.prev].next = n.next
	} else {
		q.head = n.next
	}

	if n.next != nilSlot {
		q.nodes[n.next].prev = n.prev
	} else {
		q.tail = n.prev
	}

	q.nodes[slot] = lruNode{prev: nilSlot, next: nilSlot}
}

func (q *LRUQueue) linkFront(slot int) {
	q.nodes[slot] = lruNode{prev: nilSlot, next: q.head}

	if q.head != nilSlot {
		q.nodes[q.head].prev = slot
	}

	q.head = slot

	if q.tail == nilSlot {
		q.tail = slot
	}
}
